// Package ir provides the intermediate representation shared by the macro
// compiler, the layout resolver and the injectors.
//
// This package contains value types only. All other internal packages
// import ir; ir imports nothing internal.
//
// The representation has two levels:
//   - ActionNode trees: "hold Key while typing Children, then release Key"
//   - flat KeyEvent lists: ordered (code, phase) pairs handed to an injector
//
// Key codes are stable integers (see package vk), never OS scan codes.
package ir
