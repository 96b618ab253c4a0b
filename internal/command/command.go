// Package command holds the declarative command model, the input decoder,
// and the execution dispatcher. Commands come from the loaded configuration
// (or from Go code via the builders), get synthesized onto the CLI surface
// once at startup, and are executed through Execute with a shared read-only
// context.
package command

import "github.com/cfgen-dev/cfgen/internal/schema"

// Command is the closed set of command variants. Exactly one concrete type
// implements each variant; the dispatcher switches over them exhaustively.
type Command interface {
	isCommand()
	// HelpText returns the declared one-line description, if any.
	HelpText() string
}

// StringCommand runs its text as a shell invocation.
type StringCommand struct {
	Run  string
	Help string
}

// FuncCommand invokes an opaque callback with the execution context.
// It declares no options or arguments.
type FuncCommand struct {
	Fn   func(ctx *Context) error
	Help string
}

// Handler is the callback of a typed command, invoked with validated
// options and arguments.
type Handler func(opts map[string]any, args map[string]any, ctx *Context) error

// NamedSchema pairs an argument name with its validator. Argument order is
// significant: it determines positional order on the CLI surface.
type NamedSchema struct {
	Name   string
	Schema schema.Schema
}

// TypedCommand declares validated options and positional arguments.
//
// The at-most-one-trailing-array-argument constraint is checked lazily at
// synthesis time, not at construction.
type TypedCommand struct {
	Help    string
	Options map[string]schema.Schema
	Args    []NamedSchema
	Handler Handler
}

// GroupCommand is a named subtree of commands, dispatched by consuming one
// positional token per level. Depth is unbounded.
type GroupCommand struct {
	Help     string
	Children map[string]Command
}

func (*StringCommand) isCommand() {}
func (*FuncCommand) isCommand()   {}
func (*TypedCommand) isCommand()  {}
func (*GroupCommand) isCommand()  {}

func (c *StringCommand) HelpText() string { return c.Help }
func (c *FuncCommand) HelpText() string   { return c.Help }
func (c *TypedCommand) HelpText() string  { return c.Help }
func (c *GroupCommand) HelpText() string  { return c.Help }

// NewString builds a string command from shell text and optional help.
func NewString(run, help string) *StringCommand {
	return &StringCommand{Run: run, Help: help}
}

// NewFunc builds a function command around an opaque callback.
func NewFunc(fn func(ctx *Context) error, help string) *FuncCommand {
	return &FuncCommand{Fn: fn, Help: help}
}

// NewTyped builds a typed command. Args order is preserved as given.
func NewTyped(help string, options map[string]schema.Schema, args []NamedSchema, handler Handler) *TypedCommand {
	return &TypedCommand{Help: help, Options: options, Args: args, Handler: handler}
}

// NewGroup builds a group command over a name→command map.
func NewGroup(help string, children map[string]Command) *GroupCommand {
	return &GroupCommand{Help: help, Children: children}
}
