package ir

import "github.com/gogpu/shaderir/arena"

// ExpressionRange denotes a batch of consecutively appended
// expressions, as covered by a single StmtEmit.
type ExpressionRange = arena.Range[Expression]

// Expression is a node that can be evaluated to obtain a value.
//
// Expressions have no side effects and form a DAG in SSA style: when a
// variant holds ExpressionHandle fields they refer to earlier
// expressions in the same arena. An arena only reaches a different
// arena indirectly, through ExprConstant, ExprOverride and
// ExprGlobalVariable handles whose initializers live in
// Module.GlobalExpressions.
//
// See the package documentation for when an expression is evaluated
// and where it may be referenced.
type Expression struct {
	Kind ExpressionKind
}

// ExpressionKind is one of the Expr* variants below.
type ExpressionKind interface {
	expressionKind()
}

// Literal is a literal constant value.
type Literal struct {
	Value LiteralValue
}

func (Literal) expressionKind() {}

// ExprConstant references a module-scope constant.
type ExprConstant struct {
	Constant ConstantHandle
}

func (ExprConstant) expressionKind() {}

// ExprOverride references a pipeline-overridable constant.
//
// Expressions containing this variant are override expressions, not
// constant expressions, and so may not be reachable from any
// Constant's initializer.
type ExprOverride struct {
	Override OverrideHandle
}

func (ExprOverride) expressionKind() {}

// ExprZeroValue is the zero value of a type. The type must be fully
// sized.
type ExprZeroValue struct {
	Type TypeHandle
}

func (ExprZeroValue) expressionKind() {}

// ExprCompose constructs a composite value (vector, matrix, array, or
// struct) from components.
type ExprCompose struct {
	Type       TypeHandle
	Components []ExpressionHandle
}

func (ExprCompose) expressionKind() {}

// ExprAccess indexes a composite with a computed index.
//
// The base must be a vector, matrix, array, a pointer to one of
// those, or a sized value pointer; the index must be an integer.
// Indexing through a pointer produces a pointer to the element type in
// the same address space. A matrix not behind a pointer may only be
// subscripted with a constant index; use ExprAccessIndex for that.
type ExprAccess struct {
	Base  ExpressionHandle
	Index ExpressionHandle
}

func (ExprAccess) expressionKind() {}

// ExprAccessIndex indexes the same types as ExprAccess, plus struct
// members, with a compile-time constant index.
type ExprAccessIndex struct {
	Base  ExpressionHandle
	Index uint32
}

func (ExprAccessIndex) expressionKind() {}

// ExprSplat broadcasts a scalar to all components of a vector.
type ExprSplat struct {
	Size  VectorSize
	Value ExpressionHandle
}

func (ExprSplat) expressionKind() {}

// ExprSwizzle reorders or duplicates vector components.
type ExprSwizzle struct {
	Size    VectorSize
	Vector  ExpressionHandle
	Pattern [4]SwizzleComponent
}

func (ExprSwizzle) expressionKind() {}

// SwizzleComponent selects one component in a vector swizzle.
type SwizzleComponent uint8

const (
	SwizzleX SwizzleComponent = 0
	SwizzleY SwizzleComponent = 1
	SwizzleZ SwizzleComponent = 2
	SwizzleW SwizzleComponent = 3
)

// ExprFunctionArgument references a function parameter by index and
// evaluates to the argument's value. Arguments cannot be assigned to.
type ExprFunctionArgument struct {
	Index uint32
}

func (ExprFunctionArgument) expressionKind() {}

// ExprGlobalVariable references a global variable.
//
// For a variable in SpaceHandle this produces the variable's opaque
// value directly. For any other space it produces a pointer to the
// variable's value; use ExprLoad to read it and StmtStore to write it.
type ExprGlobalVariable struct {
	Variable GlobalVariableHandle
}

func (ExprGlobalVariable) expressionKind() {}

// ExprLocalVariable references a local variable and evaluates to a
// pointer to its value.
type ExprLocalVariable struct {
	Variable LocalVariableHandle
}

func (ExprLocalVariable) expressionKind() {}

// ExprLoad reads a value through a pointer. For a pointer to an atomic
// the result is the corresponding scalar.
type ExprLoad struct {
	Pointer ExpressionHandle
}

func (ExprLoad) expressionKind() {}

// SampleLevel controls the level of detail for ExprImageSample.
type SampleLevel interface {
	sampleLevel()
}

// SampleLevelAuto uses the automatic level of detail.
type SampleLevelAuto struct{}

func (SampleLevelAuto) sampleLevel() {}

// SampleLevelZero samples mipmap level zero.
type SampleLevelZero struct{}

func (SampleLevelZero) sampleLevel() {}

// SampleLevelExact samples an explicit level of detail.
type SampleLevelExact struct {
	Level ExpressionHandle
}

func (SampleLevelExact) sampleLevel() {}

// SampleLevelBias biases the automatic level of detail.
type SampleLevelBias struct {
	Bias ExpressionHandle
}

func (SampleLevelBias) sampleLevel() {}

// SampleLevelGradient derives the level of detail from explicit
// gradients.
type SampleLevelGradient struct {
	X ExpressionHandle
	Y ExpressionHandle
}

func (SampleLevelGradient) sampleLevel() {}

// ExprImageSample samples a point from a sampled or depth image.
type ExprImageSample struct {
	Image   ExpressionHandle
	Sampler ExpressionHandle
	// Gather, when set, turns this into a gather of the selected
	// component. HasGather distinguishes "no gather" from gathering
	// component X.
	Gather     SwizzleComponent
	HasGather  bool
	Coordinate ExpressionHandle
	// ArrayIndex must be set exactly when the image type is arrayed.
	ArrayIndex ExpressionHandle
	// Offset must be a constant expression, if set.
	Offset ExpressionHandle
	Level  SampleLevel
	// DepthRef is the comparison reference for depth images.
	DepthRef ExpressionHandle
}

func (ExprImageSample) expressionKind() {}

// ExprImageLoad fetches one texel from an image without sampling.
type ExprImageLoad struct {
	Image      ExpressionHandle
	Coordinate ExpressionHandle
	// ArrayIndex must be set exactly when the image type is arrayed.
	ArrayIndex ExpressionHandle
	// Sample selects a sample of a multisampled image.
	Sample ExpressionHandle
	// Level selects a mip level; required for non-multisampled
	// sampled and depth images.
	Level ExpressionHandle
}

func (ExprImageLoad) expressionKind() {}

// ImageQuery is the subject of an ExprImageQuery.
type ImageQuery interface {
	imageQuery()
}

// ImageQuerySize queries the image size at a given mip level, or the
// base level when Level is the zero handle.
type ImageQuerySize struct {
	Level ExpressionHandle
}

func (ImageQuerySize) imageQuery() {}

// ImageQueryNumLevels queries the number of mip levels.
type ImageQueryNumLevels struct{}

func (ImageQueryNumLevels) imageQuery() {}

// ImageQueryNumLayers queries the number of array layers.
type ImageQueryNumLayers struct{}

func (ImageQueryNumLayers) imageQuery() {}

// ImageQueryNumSamples queries the number of samples.
type ImageQueryNumSamples struct{}

func (ImageQueryNumSamples) imageQuery() {}

// ExprImageQuery queries information from an image.
type ExprImageQuery struct {
	Image ExpressionHandle
	Query ImageQuery
}

func (ExprImageQuery) expressionKind() {}

// UnaryOperator is an operation on a single value.
type UnaryOperator uint8

const (
	UnaryNegate     UnaryOperator = iota // arithmetic negation
	UnaryLogicalNot                      // logical not (!)
	UnaryBitwiseNot                      // bitwise not (~)
)

// ExprUnary applies a unary operator.
type ExprUnary struct {
	Op   UnaryOperator
	Expr ExpressionHandle
}

func (ExprUnary) expressionKind() {}

// BinaryOperator is an operation on two values.
type BinaryOperator uint8

const (
	BinaryAdd BinaryOperator = iota
	BinarySubtract
	BinaryMultiply
	BinaryDivide
	BinaryModulo

	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryLessEqual
	BinaryGreater
	BinaryGreaterEqual

	BinaryAnd
	BinaryExclusiveOr
	BinaryInclusiveOr

	BinaryLogicalAnd
	BinaryLogicalOr

	BinaryShiftLeft
	// BinaryShiftRight carries the sign for signed integers only.
	BinaryShiftRight
)

// ExprBinary applies a binary operator.
type ExprBinary struct {
	Op    BinaryOperator
	Left  ExpressionHandle
	Right ExpressionHandle
}

func (ExprBinary) expressionKind() {}

// ExprSelect chooses between two values based on a boolean condition.
// Because expressions have no side effects, it is unobservable whether
// the non-selected operand is evaluated.
type ExprSelect struct {
	Condition ExpressionHandle
	Accept    ExpressionHandle
	Reject    ExpressionHandle
}

func (ExprSelect) expressionKind() {}

// DerivativeAxis is the axis of an ExprDerivative.
type DerivativeAxis uint8

const (
	DerivativeX     DerivativeAxis = iota
	DerivativeY
	DerivativeWidth // sum of absolute derivatives (fwidth)
)

// DerivativeControl hints at the precision of a derivative.
type DerivativeControl uint8

const (
	DerivativeCoarse DerivativeControl = iota
	DerivativeFine
	DerivativeNone
)

// ExprDerivative computes a screen-space derivative. Derivatives are
// sensitive to control-flow uniformity and must not be moved between
// uniform and non-uniform regions; see FunctionInfo.EffectiveRefCount.
type ExprDerivative struct {
	Axis    DerivativeAxis
	Control DerivativeControl
	Expr    ExpressionHandle
}

func (ExprDerivative) expressionKind() {}

// RelationalFunction is a built-in relational test.
type RelationalFunction uint8

const (
	RelationalAll   RelationalFunction = iota // all components true
	RelationalAny                             // any component true
	RelationalIsNan
	RelationalIsInf
)

// ExprRelational applies a relational function.
type ExprRelational struct {
	Fun      RelationalFunction
	Argument ExpressionHandle
}

func (ExprRelational) expressionKind() {}

// MathFunction tags a built-in math operation. The IR treats these as
// opaque operation tags; their numeric semantics belong to the target
// languages.
type MathFunction uint8

const (
	// comparison
	MathAbs MathFunction = iota
	MathMin
	MathMax
	MathClamp
	MathSaturate

	// trigonometry
	MathCos
	MathCosh
	MathSin
	MathSinh
	MathTan
	MathTanh
	MathAcos
	MathAsin
	MathAtan
	MathAtan2
	MathAsinh
	MathAcosh
	MathAtanh
	MathRadians
	MathDegrees

	// decomposition
	MathCeil
	MathFloor
	MathRound
	MathFract
	MathTrunc
	MathModf
	MathFrexp
	MathLdexp

	// exponent
	MathExp
	MathExp2
	MathLog
	MathLog2
	MathPow

	// geometry
	MathDot
	MathDot4I8Packed
	MathDot4U8Packed
	MathOuter
	MathCross
	MathDistance
	MathLength
	MathNormalize
	MathFaceForward
	MathReflect
	MathRefract

	// computational
	MathSign
	MathFma
	MathMix
	MathStep
	MathSmoothStep
	MathSqrt
	MathInverseSqrt
	MathInverse
	MathTranspose
	MathDeterminant
	MathQuantizeF16

	// bits
	MathCountTrailingZeros
	MathCountLeadingZeros
	MathCountOneBits
	MathReverseBits
	MathExtractBits
	MathInsertBits
	MathFirstTrailingBit
	MathFirstLeadingBit

	// data packing
	MathPack4x8snorm
	MathPack4x8unorm
	MathPack2x16snorm
	MathPack2x16unorm
	MathPack2x16float
	MathPack4xI8
	MathPack4xU8
	MathPack4xI8Clamp
	MathPack4xU8Clamp

	// data unpacking
	MathUnpack4x8snorm
	MathUnpack4x8unorm
	MathUnpack2x16snorm
	MathUnpack2x16unorm
	MathUnpack2x16float
	MathUnpack4xI8
	MathUnpack4xU8
)

// ExprMath applies a math function. Unused trailing arguments are the
// zero handle.
type ExprMath struct {
	Fun  MathFunction
	Arg  ExpressionHandle
	Arg1 ExpressionHandle
	Arg2 ExpressionHandle
	Arg3 ExpressionHandle
}

func (ExprMath) expressionKind() {}

// ExprAs casts a scalar or vector to another kind. If Convert is zero
// the cast is a bitcast; otherwise the value is converted to the given
// byte width.
type ExprAs struct {
	Expr    ExpressionHandle
	Kind    ScalarKind
	Convert uint8
}

func (ExprAs) expressionKind() {}

// ExprArrayLength returns the length of a dynamically sized array. The
// operand must resolve to a pointer to such an array.
type ExprArrayLength struct {
	Array ExpressionHandle
}

func (ExprArrayLength) expressionKind() {}

// ExprCallResult is the return value of a function call. It must be
// designated as the result of exactly one StmtCall in the same
// function, and is evaluated when that statement executes.
type ExprCallResult struct {
	Function FunctionHandle
}

func (ExprCallResult) expressionKind() {}

// ExprAtomicResult is the prior value produced by an atomic operation.
// It must be designated as the result of exactly one StmtAtomic.
//
// For a plain atomic, Type is the atomic's scalar type and Comparison
// is false. For a compare-exchange, Comparison is true and Type is a
// struct with the old value and an "exchanged" boolean.
type ExprAtomicResult struct {
	Type       TypeHandle
	Comparison bool
}

func (ExprAtomicResult) expressionKind() {}

// ExprWorkGroupUniformLoadResult is the value produced by a
// StmtWorkGroupUniformLoad designating it.
type ExprWorkGroupUniformLoadResult struct {
	Type TypeHandle
}

func (ExprWorkGroupUniformLoadResult) expressionKind() {}

// ExprSubgroupBallotResult is the bitmask produced by a
// StmtSubgroupBallot designating it.
type ExprSubgroupBallotResult struct{}

func (ExprSubgroupBallotResult) expressionKind() {}

// ExprSubgroupOperationResult is the value produced by a
// StmtSubgroupGather or StmtSubgroupCollectiveOperation designating
// it.
type ExprSubgroupOperationResult struct {
	Type TypeHandle
}

func (ExprSubgroupOperationResult) expressionKind() {}

// ExprRayQueryProceedResult is the boolean produced by a ray query
// Proceed operation, indicating whether intersection candidates
// remain.
type ExprRayQueryProceedResult struct{}

func (ExprRayQueryProceedResult) expressionKind() {}

// ExprRayQueryGetIntersection returns an intersection found by a ray
// query: the committed intersection when Committed is true, else the
// current candidate.
type ExprRayQueryGetIntersection struct {
	Query     ExpressionHandle
	Committed bool
}

func (ExprRayQueryGetIntersection) expressionKind() {}

// ExprRayQueryVertexPositions returns the positions of the triangle
// hit by a ray query.
type ExprRayQueryVertexPositions struct {
	Query     ExpressionHandle
	Committed bool
}

func (ExprRayQueryVertexPositions) expressionKind() {}
