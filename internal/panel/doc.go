// Package panel holds the conversion panel's model and controller.
//
// The model is an explicit State value transformed by a pure Reduce
// function; side effects (probing sources, spawning conversions, writing
// history) are returned as effect values and executed by the Controller.
// GUI hosts own the widgets and translate events into Actions; nothing in
// this package touches a toolkit.
package panel
