// Package roomservice owns private shopping rooms: short invite codes,
// membership, and the activity timestamps the room list is sorted by.
package roomservice
