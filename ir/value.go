package ir

// LiteralValue is the value of a Literal expression.
type LiteralValue interface {
	literalValue()
}

// LiteralF64 is a 64-bit float literal (may not be NaN or infinity).
type LiteralF64 float64

func (LiteralF64) literalValue() {}

// LiteralF32 is a 32-bit float literal (may not be NaN or infinity).
type LiteralF32 float32

func (LiteralF32) literalValue() {}

// LiteralU32 is a 32-bit unsigned integer literal.
type LiteralU32 uint32

func (LiteralU32) literalValue() {}

// LiteralI32 is a 32-bit signed integer literal.
type LiteralI32 int32

func (LiteralI32) literalValue() {}

// LiteralU64 is a 64-bit unsigned integer literal.
type LiteralU64 uint64

func (LiteralU64) literalValue() {}

// LiteralI64 is a 64-bit signed integer literal.
type LiteralI64 int64

func (LiteralI64) literalValue() {}

// LiteralBool is a boolean literal.
type LiteralBool bool

func (LiteralBool) literalValue() {}

// LiteralAbstractInt is a front-end abstract integer literal.
// Validation rejects these in a finished module.
type LiteralAbstractInt int64

func (LiteralAbstractInt) literalValue() {}

// LiteralAbstractFloat is a front-end abstract float literal.
// Validation rejects these in a finished module.
type LiteralAbstractFloat float64

func (LiteralAbstractFloat) literalValue() {}

// Constant is a module-scope constant value.
type Constant struct {
	Name string
	Type TypeHandle
	// Init is the constant's value. The handle refers to
	// Module.GlobalExpressions, and the expression it names must be a
	// constant expression: evaluable at module translation time, with
	// no reachable ExprOverride reference.
	Init ExpressionHandle
}

// Override is a pipeline-overridable constant. Its value is settled at
// pipeline creation time, later than a Constant's.
type Override struct {
	Name string
	// ID is the pipeline constant ID, if one was assigned. Zero means
	// no ID; validation requires assigned IDs to be unique.
	ID uint16
	// HasID distinguishes "no ID" from an explicit ID of zero.
	HasID bool
	Type  TypeHandle
	// Init is the default value, if any; the zero handle means the
	// pipeline must supply one. The handle refers to
	// Module.GlobalExpressions and must name an override expression.
	Init ExpressionHandle
}

// ResourceBinding is the pipeline binding point of a global resource.
type ResourceBinding struct {
	// Group is the bind group index.
	Group uint32
	// Binding is the binding number within the group.
	Binding uint32
}

// GlobalVariable is a variable defined at module level.
type GlobalVariable struct {
	Name  string
	Space AddressSpace
	// Access restricts operations on SpaceStorage variables.
	Access StorageAccess
	// Binding is set for resources bound by the pipeline.
	Binding *ResourceBinding
	Type    TypeHandle
	// Init is the initial value, if any, referring to
	// Module.GlobalExpressions. Variables in SpaceHandle hold opaque
	// objects and take no initializer.
	Init ExpressionHandle
}

// LocalVariable is a variable defined at function level.
type LocalVariable struct {
	Name string
	Type TypeHandle
	// Init is the initial value, if any. The handle refers to the
	// owning function's expression arena, and the expression must be
	// an evaluated override expression, so a back end can materialize
	// it without running any statements.
	Init ExpressionHandle
}
