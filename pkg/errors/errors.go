// Package errors provides structured error handling for the Anvil engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindStructural indicates a broken declarative description, such as a
	// child declared under a node that cannot hold children.
	KindStructural
	// KindFactory indicates that no registered factory produced a node.
	KindFactory
	// KindAttribute indicates an attribute value a setter could not accept.
	KindAttribute
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindRender indicates a failure of an asynchronous render pass.
	KindRender
	// KindConfig indicates a configuration loading error.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindFactory:
		return "factory"
	case KindAttribute:
		return "attribute"
	case KindPanic:
		return "panic"
	case KindRender:
		return "render"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// AnvilError represents a structured error in the Anvil engine.
type AnvilError struct {
	// Op is the operation that failed (e.g., "anvil.Render").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AnvilError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *AnvilError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "anvil.Render").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// StructuralError reports a child declared under a node that is not a
// container. It always indicates a bug in the declarative description.
type StructuralError struct {
	// Parent is the type name of the node the child was declared under.
	Parent string
	// Child describes the requested child (node type or template id).
	Child string
	// Reason replaces the default message for misuse that is not tied to a
	// particular parent, such as an unbalanced End.
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Reason != "" {
		return "invalid view structure: " + e.Reason
	}
	return fmt.Sprintf("cannot declare %s under %s: child nodes are allowed only inside containers", e.Child, e.Parent)
}

// FactoryError reports that no registered node factory produced a node.
type FactoryError struct {
	// Child describes the requested child (node type or template id).
	Child string
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("no node factory could create %s", e.Child)
}

// AttributeTypeError reports an attribute value whose dynamic type does not
// match the type a setter expects.
type AttributeTypeError struct {
	// Name is the attribute name.
	Name string
	// Node is the type name of the target node.
	Node string
	// Want is the type name the setter expects.
	Want string
	// Got is the value that was provided.
	Got any
}

func (e *AttributeTypeError) Error() string {
	return fmt.Sprintf("attribute %q on %s: want %s, got %T", e.Name, e.Node, e.Want, e.Got)
}

// ErrorHandler receives errors reported by the Anvil engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *AnvilError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
