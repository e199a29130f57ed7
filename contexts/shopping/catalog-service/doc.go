// Package catalogservice owns the product catalog carts and chat draw from.
// Display-formatted prices are normalized into integer minor units exactly
// once, at this boundary.
package catalogservice
