// Package compiler turns macro strings into flat key event lists.
//
// A macro is a sequence of key tokens:
//
//	a        literal character
//	\n \t \( escaped character (\n, \r, \t map to control characters)
//	{ENTER}  named key, resolved case-insensitively
//	{65}     raw key code
//	{CONTENT} content placeholder (envelope templates only)
//	k(...)   hold k while typing the group
//
// Compilation runs in four pure stages: ParseSequence builds an action
// tree, ApplyEnvelope splices content into a template, Generate resolves
// every key through a Resolver and linearizes the tree, and callers render
// or inject the events. All stages are safe for concurrent use.
package compiler
