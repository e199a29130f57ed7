// Package channelservice owns public brand channels: the browsable list,
// membership, and the trending counter fed by product-share activity.
package channelservice
