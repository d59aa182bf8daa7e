// Package browser runs every service session in its own incognito Chrome
// context driven over the DevTools protocol. It implements views.Backend.
package browser
