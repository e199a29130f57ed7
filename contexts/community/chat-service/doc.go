// Package chatservice owns the message stream inside rooms and brand
// channels: user text, shared products, and the system messages other
// contexts emit into the conversation.
package chatservice
