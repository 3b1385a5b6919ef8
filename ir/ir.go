package ir

import "github.com/gogpu/shaderir/arena"

// Module is the top level of the IR: everything a shader translation
// unit contains.
//
// All module contents live in arenas owned by the Module, so a Module
// is self-contained and copyable. In a valid module every handle
// refers to an earlier element of its arena; the one permitted
// circularity is between Types and GlobalExpressions, which refer to
// each other jointly (an array type's pending size names an override
// whose initializer is an expression whose type was declared earlier)
// while still admitting an order that visits each element after
// everything it uses. Validate checks this.
type Module struct {
	// Types used by the module, deduplicated structurally.
	Types arena.UniqueArena[Type]
	// Constants settled at module translation time.
	Constants arena.Arena[Constant]
	// Overrides settled at pipeline creation time.
	Overrides arena.Arena[Override]
	// GlobalVariables usable by functions and entry points.
	GlobalVariables arena.Arena[GlobalVariable]
	// GlobalExpressions holds the initializers of constants, overrides,
	// global variables and, indirectly, pending array sizes. Only
	// constant and override expressions may appear here.
	GlobalExpressions arena.Arena[Expression]
	// Functions, in an order where every function precedes its callers.
	Functions arena.Arena[Function]
	// SpecialTypes are predeclared types the ray query operations
	// resolve to; zero handles when the module does not use them.
	SpecialTypes SpecialTypes
	// EntryPoints are not in any arena; nothing refers to them.
	EntryPoints []EntryPoint
	// DocComments carries source documentation, when a front end
	// collects it.
	DocComments *DocComments
}

// SpecialTypes collects the predeclared struct types that ray query
// operations produce: the ray descriptor passed to RayQueryInitialize,
// the intersection returned by ExprRayQueryGetIntersection, and the
// vertex positions returned by ExprRayQueryVertexPositions.
type SpecialTypes struct {
	RayDesc         TypeHandle
	RayIntersection TypeHandle
	RayVertexReturn TypeHandle
}

// FunctionArgument is a parameter of a Function.
type FunctionArgument struct {
	Name string
	Type TypeHandle
	// Binding is set iff the function is an entry point.
	Binding Binding
}

// FunctionResult is the declared result of a Function.
type FunctionResult struct {
	Type TypeHandle
	// Binding is set iff the function is an entry point.
	Binding Binding
}

// Function is a shader IR function.
type Function struct {
	Name      string
	Arguments []FunctionArgument
	// Result is nil for functions that return no value.
	Result         *FunctionResult
	LocalVariables arena.Arena[LocalVariable]
	// Expressions used by the function's body. Expression handles in
	// the body and in local-variable initializers refer here.
	Expressions arena.Arena[Expression]
	// NamedExpressions preserves source-level names for expressions
	// that are not otherwise named, to improve output readability. The
	// map is advisory and never affects semantics.
	NamedExpressions map[ExpressionHandle]string
	Body             Block
}

// ShaderStage is a pipeline stage an entry point can run in.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageCompute
	StageTask
	StageMesh
)

// ConservativeDepth constrains how a fragment shader may adjust the
// depth value while keeping early depth testing sound.
type ConservativeDepth uint8

const (
	// DepthGreaterEqual: the shader may only make depth larger.
	DepthGreaterEqual ConservativeDepth = iota
	// DepthLessEqual: the shader may only make depth smaller.
	DepthLessEqual
	// DepthUnchanged: the shader never changes the depth.
	DepthUnchanged
)

// EarlyDepthTestKind discriminates EarlyDepthTest.
type EarlyDepthTestKind uint8

const (
	// EarlyDepthForce runs depth and stencil tests unconditionally
	// before the fragment shader, even when it would be observable.
	EarlyDepthForce EarlyDepthTestKind = iota
	// EarlyDepthAllow permits early testing under a conservative depth
	// guarantee.
	EarlyDepthAllow
)

// EarlyDepthTest configures early depth/stencil testing for a fragment
// entry point.
type EarlyDepthTest struct {
	Kind EarlyDepthTestKind
	// Conservative is meaningful for EarlyDepthAllow.
	Conservative ConservativeDepth
}

// EntryPoint is the root of a shader stage: an exported function with
// a stage and stage-specific metadata. Entry points may call module
// functions but cannot themselves be called.
type EntryPoint struct {
	// Name is the exported name; it must be unique per stage.
	Name  string
	Stage ShaderStage
	// EarlyDepthTest is set only on fragment entry points.
	EarlyDepthTest *EarlyDepthTest
	// WorkgroupSize is the compute dispatch group size. Compute entry
	// points require either a non-zero size or overrides for it.
	WorkgroupSize [3]uint32
	// WorkgroupSizeOverrides, when set, gives override expressions in
	// Module.GlobalExpressions for each non-fixed dimension.
	WorkgroupSizeOverrides *[3]ExpressionHandle
	Function               Function
}

// Binding describes how a value is passed into or out of an entry
// point: either a built-in value or a user-defined I/O location.
type Binding interface {
	binding()
}

// BuiltinBinding binds to a built-in shader value.
type BuiltinBinding struct {
	Builtin BuiltinValue
}

func (BuiltinBinding) binding() {}

// LocationBinding binds to a numbered inter-stage I/O location.
type LocationBinding struct {
	Location uint32
	// Interpolation and Sampling apply to fragment inputs.
	Interpolation Interpolation
	Sampling      Sampling
	// BlendSrc selects a dual-source blending input; HasBlendSrc
	// distinguishes "unset" from an explicit zero.
	BlendSrc    uint32
	HasBlendSrc bool
}

func (LocationBinding) binding() {}

// BuiltinValue is a value supplied by or reported to the pipeline.
type BuiltinValue uint8

const (
	BuiltinPosition BuiltinValue = iota
	BuiltinPositionInvariant
	BuiltinViewIndex
	// vertex
	BuiltinBaseInstance
	BuiltinBaseVertex
	BuiltinClipDistance
	BuiltinCullDistance
	BuiltinInstanceIndex
	BuiltinPointSize
	BuiltinVertexIndex
	BuiltinDrawID
	// fragment
	BuiltinFragDepth
	BuiltinPointCoord
	BuiltinFrontFacing
	BuiltinPrimitiveIndex
	BuiltinSampleIndex
	BuiltinSampleMask
	// compute
	BuiltinGlobalInvocationID
	BuiltinLocalInvocationID
	BuiltinLocalInvocationIndex
	BuiltinWorkGroupID
	BuiltinWorkGroupSize
	BuiltinNumWorkGroups
	// subgroup
	BuiltinNumSubgroups
	BuiltinSubgroupID
	BuiltinSubgroupSize
	BuiltinSubgroupInvocationID
)

// Interpolation is how a fragment input varies across a primitive.
type Interpolation uint8

const (
	InterpolationPerspective Interpolation = iota
	InterpolationLinear
	InterpolationFlat
)

// Sampling is where within a pixel a fragment input is interpolated.
type Sampling uint8

const (
	SamplingCenter Sampling = iota
	SamplingCentroid
	SamplingSample
	SamplingFirst
	SamplingEither
)

// DocComments is source documentation collected by a front end, keyed
// by the documented item. Purely informational.
type DocComments struct {
	Types           map[TypeHandle][]string
	StructMembers   map[StructMemberKey][]string
	EntryPoints     map[int][]string
	Functions       map[FunctionHandle][]string
	Constants       map[ConstantHandle][]string
	GlobalVariables map[GlobalVariableHandle][]string
	Module          []string
}

// StructMemberKey identifies a struct member for documentation.
type StructMemberKey struct {
	Type   TypeHandle
	Member int
}
