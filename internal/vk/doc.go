// Package vk defines the stable virtual key codes used throughout vscan and
// the built-in symbolic tables that resolve characters and key names to key
// events when no layout file provides a mapping.
//
// Codes follow the classic Java AWT VK_* numbering, which is what layout
// files recorded by earlier tools contain. Injector backends translate
// them to platform codes.
package vk
