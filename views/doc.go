// Package views is the multi-session view manager at the heart of the shell.
//
// It owns one isolated browsing context per catalog service, keeps exactly
// one of them visible, places it below the chrome bar, and applies mode and
// tab switches requested by the UI layer.
//
// # Architecture
//
//   - Pool: creates and owns one Session per service id
//   - LayoutFor: computes the content rectangle for the visible Session
//   - Controller: holds the active mode and service and enacts switches
//
// Browsing contexts are reached through the Surface and Backend interfaces;
// package browser provides the go-rod implementation.
//
// # Threading
//
// The Controller is not safe for concurrent use. Every call must come from
// the UI event loop (the GTK main loop or the terminal program's update
// loop). Callbacks from other goroutines must be marshalled onto that loop,
// for example with glib.IdleAdd.
package views
