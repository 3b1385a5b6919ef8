package ir

// Block is a sequence of statements executed in order.
type Block []Statement

// Statement is one node of a function body's statement tree.
type Statement struct {
	Kind StatementKind
}

// StatementKind is one of the Stmt* variants below.
type StatementKind interface {
	statementKind()
}

// StmtEmit evaluates a range of expressions appended consecutively to
// the function's arena. Each expression whose evaluation time is not
// fixed elsewhere must be covered by exactly one emit; evaluating it
// brings it into scope for the remainder of the enclosing Block.
type StmtEmit struct {
	Range ExpressionRange
}

func (StmtEmit) statementKind() {}

// StmtBlock executes a nested block. Expressions emitted inside go out
// of scope when the block ends.
type StmtBlock struct {
	Body Block
}

func (StmtBlock) statementKind() {}

// StmtIf executes Accept if Condition is true, Reject otherwise.
type StmtIf struct {
	Condition ExpressionHandle
	Accept    Block
	Reject    Block
}

func (StmtIf) statementKind() {}

// SwitchValue is a switch case selector.
type SwitchValue struct {
	Kind SwitchValueKind
	// Value is the case value for SwitchI32 and SwitchU32 (stored as
	// the unsigned bit pattern for SwitchI32).
	Value uint32
}

// SwitchValueKind discriminates SwitchValue.
type SwitchValueKind uint8

const (
	SwitchI32 SwitchValueKind = iota
	SwitchU32
	SwitchDefault
)

// SwitchCase is one arm of a StmtSwitch.
type SwitchCase struct {
	Value SwitchValue
	Body  Block
	// FallThrough makes execution continue into the next case instead
	// of leaving the switch. The last case must not fall through.
	FallThrough bool
}

// StmtSwitch dispatches on an integer selector. Case values must be
// distinct, and exactly one case must be the default; it may appear in
// any position.
type StmtSwitch struct {
	Selector ExpressionHandle
	Cases    []SwitchCase
}

func (StmtSwitch) statementKind() {}

// StmtLoop executes Body repeatedly. After each iteration Continuing
// runs, then BreakIf (if set) is evaluated and ends the loop when
// true. Expressions emitted by Body remain in scope in Continuing and
// BreakIf.
//
// Continuing must not contain a StmtReturn or StmtKill, nor a
// StmtBreak or StmtContinue targeting this loop; a loop or switch
// nested inside Continuing may still use its own.
type StmtLoop struct {
	Body       Block
	Continuing Block
	// BreakIf is conceptually evaluated after Continuing, so it may
	// reference expressions emitted there.
	BreakIf ExpressionHandle
}

func (StmtLoop) statementKind() {}

// StmtBreak exits the innermost enclosing loop or switch.
type StmtBreak struct{}

func (StmtBreak) statementKind() {}

// StmtContinue skips to the continuing block of the innermost
// enclosing loop.
type StmtContinue struct{}

func (StmtContinue) statementKind() {}

// StmtReturn returns from the function, with Value set exactly when
// the function declares a result.
type StmtReturn struct {
	Value ExpressionHandle
}

func (StmtReturn) statementKind() {}

// StmtKill discards the current fragment invocation.
type StmtKill struct{}

func (StmtKill) statementKind() {}

// Barrier flags select the memory scopes a StmtBarrier synchronizes.
type Barrier uint32

const (
	BarrierStorage Barrier = 1 << iota
	BarrierWorkGroup
	BarrierSubgroup
	BarrierTexture
)

// StmtBarrier synchronizes invocations of the workgroup.
type StmtBarrier struct {
	Flags Barrier
}

func (StmtBarrier) statementKind() {}

// StmtStore writes a value through a pointer. Pointer must not resolve
// to SpaceHandle, and storing through an atomic pointer requires
// StmtAtomic instead.
type StmtStore struct {
	Pointer ExpressionHandle
	Value   ExpressionHandle
}

func (StmtStore) statementKind() {}

// StmtImageStore writes a texel to a storage image.
type StmtImageStore struct {
	Image      ExpressionHandle
	Coordinate ExpressionHandle
	// ArrayIndex must be set exactly when the image type is arrayed.
	ArrayIndex ExpressionHandle
	Value      ExpressionHandle
}

func (StmtImageStore) statementKind() {}

// AtomicFunction selects the operation of a StmtAtomic.
type AtomicFunction interface {
	atomicFunction()
}

// AtomicAdd adds the operand to the value.
type AtomicAdd struct{}

func (AtomicAdd) atomicFunction() {}

// AtomicSubtract subtracts the operand from the value.
type AtomicSubtract struct{}

func (AtomicSubtract) atomicFunction() {}

// AtomicAnd applies bitwise and.
type AtomicAnd struct{}

func (AtomicAnd) atomicFunction() {}

// AtomicExclusiveOr applies bitwise exclusive or.
type AtomicExclusiveOr struct{}

func (AtomicExclusiveOr) atomicFunction() {}

// AtomicInclusiveOr applies bitwise inclusive or.
type AtomicInclusiveOr struct{}

func (AtomicInclusiveOr) atomicFunction() {}

// AtomicMin keeps the smaller of value and operand.
type AtomicMin struct{}

func (AtomicMin) atomicFunction() {}

// AtomicMax keeps the larger of value and operand.
type AtomicMax struct{}

func (AtomicMax) atomicFunction() {}

// AtomicExchange replaces the value with the operand. When Compare is
// set the exchange only happens if the value equals *Compare, and the
// designated ExprAtomicResult must have Comparison set.
type AtomicExchange struct {
	Compare ExpressionHandle
}

func (AtomicExchange) atomicFunction() {}

// StmtAtomic performs an atomic read-modify-write on the value behind
// Pointer, which must resolve to a pointer to an AtomicType.
type StmtAtomic struct {
	Pointer ExpressionHandle
	Fun     AtomicFunction
	Value   ExpressionHandle
	// Result, if set, designates an ExprAtomicResult in this function
	// that receives the value before the operation. AtomicExchange is
	// the only function that requires a result.
	Result ExpressionHandle
}

func (StmtAtomic) statementKind() {}

// StmtImageAtomic performs an atomic operation on a texel of a storage
// image with AccessAtomic.
type StmtImageAtomic struct {
	Image      ExpressionHandle
	Coordinate ExpressionHandle
	ArrayIndex ExpressionHandle
	Fun        AtomicFunction
	Value      ExpressionHandle
}

func (StmtImageAtomic) statementKind() {}

// StmtWorkGroupUniformLoad loads from Pointer once on behalf of the
// whole workgroup, synchronizing invocations before and after. Result
// designates the ExprWorkGroupUniformLoadResult receiving the value.
type StmtWorkGroupUniformLoad struct {
	Pointer ExpressionHandle
	Result  ExpressionHandle
}

func (StmtWorkGroupUniformLoad) statementKind() {}

// StmtCall calls another function in the module. If the callee
// declares a result, Result designates the ExprCallResult receiving
// it; otherwise Result is the zero handle.
type StmtCall struct {
	Function  FunctionHandle
	Arguments []ExpressionHandle
	Result    ExpressionHandle
}

func (StmtCall) statementKind() {}

// RayQueryFunction selects the operation of a StmtRayQuery.
type RayQueryFunction interface {
	rayQueryFunction()
}

// RayFlag flags configure ray traversal.
type RayFlag uint32

const (
	RayFlagOpaque RayFlag = 1 << iota
	RayFlagNoOpaque
	RayFlagTerminateOnFirstHit
	RayFlagSkipClosestHitShader
	RayFlagCullBackFacing
	RayFlagCullFrontFacing
	RayFlagCullOpaque
	RayFlagCullNoOpaque
	RayFlagSkipTriangles
	RayFlagSkipAABBs
)

// RayQueryInitialize resets the query and prepares it to trace a ray
// through Acceleration. Descriptor must resolve to the special ray
// descriptor struct.
type RayQueryInitialize struct {
	Acceleration ExpressionHandle
	Descriptor   ExpressionHandle
}

func (RayQueryInitialize) rayQueryFunction() {}

// RayQueryProceed advances the query to the next candidate
// intersection. Result designates an ExprRayQueryProceedResult that
// receives whether a candidate was found.
type RayQueryProceed struct {
	Result ExpressionHandle
}

func (RayQueryProceed) rayQueryFunction() {}

// RayQueryGenerateIntersection commits a candidate AABB intersection
// at the given hit distance.
type RayQueryGenerateIntersection struct {
	Hit ExpressionHandle
}

func (RayQueryGenerateIntersection) rayQueryFunction() {}

// RayQueryConfirmIntersection commits the current candidate triangle
// intersection.
type RayQueryConfirmIntersection struct{}

func (RayQueryConfirmIntersection) rayQueryFunction() {}

// RayQueryTerminate stops traversal.
type RayQueryTerminate struct{}

func (RayQueryTerminate) rayQueryFunction() {}

// StmtRayQuery operates on a ray query object behind Query, which must
// resolve to a pointer to a RayQueryType.
type StmtRayQuery struct {
	Query ExpressionHandle
	Fun   RayQueryFunction
}

func (StmtRayQuery) statementKind() {}

// StmtSubgroupBallot gathers a bitmask of the invocations for which
// Predicate is true (all invocations when Predicate is the zero
// handle). Result designates an ExprSubgroupBallotResult.
type StmtSubgroupBallot struct {
	Predicate ExpressionHandle
	Result    ExpressionHandle
}

func (StmtSubgroupBallot) statementKind() {}

// GatherMode selects the source invocation of a StmtSubgroupGather.
type GatherMode interface {
	gatherMode()
}

// GatherBroadcastFirst reads from the lowest active invocation.
type GatherBroadcastFirst struct{}

func (GatherBroadcastFirst) gatherMode() {}

// GatherBroadcast reads from the invocation with the given index,
// which must be a constant.
type GatherBroadcast struct {
	Index ExpressionHandle
}

func (GatherBroadcast) gatherMode() {}

// GatherShuffle reads from the invocation with the given index.
type GatherShuffle struct {
	Index ExpressionHandle
}

func (GatherShuffle) gatherMode() {}

// GatherShuffleDown reads from the invocation offset positions above.
type GatherShuffleDown struct {
	Offset ExpressionHandle
}

func (GatherShuffleDown) gatherMode() {}

// GatherShuffleUp reads from the invocation offset positions below.
type GatherShuffleUp struct {
	Offset ExpressionHandle
}

func (GatherShuffleUp) gatherMode() {}

// GatherShuffleXor reads from the invocation whose index is the
// current index xor the mask.
type GatherShuffleXor struct {
	Mask ExpressionHandle
}

func (GatherShuffleXor) gatherMode() {}

// GatherQuadBroadcast reads from the given invocation of the quad.
type GatherQuadBroadcast struct {
	Index ExpressionHandle
}

func (GatherQuadBroadcast) gatherMode() {}

// Direction is the axis of a GatherQuadSwap.
type Direction uint8

const (
	DirectionX Direction = iota
	DirectionY
	DirectionDiagonal
)

// GatherQuadSwap exchanges values across the quad along an axis.
type GatherQuadSwap struct {
	Direction Direction
}

func (GatherQuadSwap) gatherMode() {}

// StmtSubgroupGather reads Argument from another invocation of the
// subgroup. Result designates an ExprSubgroupOperationResult.
type StmtSubgroupGather struct {
	Mode     GatherMode
	Argument ExpressionHandle
	Result   ExpressionHandle
}

func (StmtSubgroupGather) statementKind() {}

// SubgroupOperation is the reduction applied by a subgroup collective.
type SubgroupOperation uint8

const (
	SubgroupAll SubgroupOperation = iota
	SubgroupAny
	SubgroupAdd
	SubgroupMul
	SubgroupMin
	SubgroupMax
	SubgroupAnd
	SubgroupOr
	SubgroupXor
)

// CollectiveOperation is the scan kind of a subgroup collective.
type CollectiveOperation uint8

const (
	CollectiveReduce CollectiveOperation = iota
	CollectiveInclusiveScan
	CollectiveExclusiveScan
)

// StmtSubgroupCollectiveOperation combines Argument across the
// invocations of the subgroup. Result designates an
// ExprSubgroupOperationResult.
type StmtSubgroupCollectiveOperation struct {
	Op         SubgroupOperation
	Collective CollectiveOperation
	Argument   ExpressionHandle
	Result     ExpressionHandle
}

func (StmtSubgroupCollectiveOperation) statementKind() {}
