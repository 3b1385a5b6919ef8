package ir

import "fmt"

// FunctionInfo is the result of AnalyzeFunction: per-expression usage
// information for one function.
type FunctionInfo struct {
	refCounts []uint32
}

// RefCount returns the number of places that reference h: operands of
// other expressions plus statement uses. Zero for an expression
// nothing refers to.
func (info *FunctionInfo) RefCount(h ExpressionHandle) uint32 {
	i := h.Index()
	if i >= len(info.refCounts) {
		return 0
	}
	return info.refCounts[i]
}

// EffectiveRefCount is RefCount adjusted for back ends deciding
// whether to materialize an expression into a temporary.
//
// Loads, image sampling and loading, and derivatives must not be
// re-evaluated at each use site: a second evaluation could observe a
// different value (an intervening store) or run under different
// control-flow uniformity. For those kinds any referenced expression
// reports a count of at least two, so a count of one never suggests
// inlining them. Other kinds report the plain count.
func (info *FunctionInfo) EffectiveRefCount(fn *Function, h ExpressionHandle) uint32 {
	count := info.RefCount(h)
	if count == 0 {
		return 0
	}
	switch fn.Expressions.Get(h).Kind.(type) {
	case ExprLoad, ExprImageSample, ExprImageLoad, ExprDerivative:
		if count < 2 {
			return 2
		}
	}
	return count
}

// AnalyzeFunction checks the expression evaluation and scope rules for
// one function and computes its FunctionInfo.
//
// It verifies that every emitted expression is covered by exactly one
// StmtEmit, that no emit covers an expression whose evaluation time is
// fixed elsewhere, and that every expression reference occurs where
// the expression is in scope. Errors are accumulated, not returned at
// the first failure. The info is meaningful even when errors are
// present.
func AnalyzeFunction(module *Module, fn *Function) (*FunctionInfo, []ValidationError) {
	a := &analyzer{
		fn:         fn,
		available:  make([]bool, fn.Expressions.Len()),
		emitted:    make([]bool, fn.Expressions.Len()),
		designated: make([]bool, fn.Expressions.Len()),
		info:       &FunctionInfo{refCounts: make([]uint32, fn.Expressions.Len())},
	}

	for h, expr := range fn.Expressions.Iter() {
		switch ExpressionEvalTime(expr.Kind) {
		case EvalBeforeExecution, EvalFunctionEntry:
			a.available[h.Index()] = true
		}
	}

	// Local initializers run at function entry; they may only use
	// expressions available before execution or at entry.
	for _, local := range fn.LocalVariables.Iter() {
		if local.Init.IsValid() {
			a.reference(local.Init)
		}
	}

	marks := a.block(fn.Body)
	a.unmark(marks)

	return a.info, a.errors
}

type analyzer struct {
	fn *Function
	// available marks expressions currently in scope.
	available []bool
	// emitted marks expressions ever covered by an emit, to reject a
	// second emit in a sibling block after the first went out of scope.
	emitted []bool
	// designated likewise marks result expressions ever claimed by a
	// statement.
	designated []bool
	info       *FunctionInfo
	errors     []ValidationError
}

func (a *analyzer) errorf(h ExpressionHandle, format string, args ...any) {
	a.errors = append(a.errors, ValidationError{
		Message:    fmt.Sprintf(format, args...),
		Expression: h,
		Statement:  -1,
	})
}

// reference records one use of h and checks that h is in scope here.
func (a *analyzer) reference(h ExpressionHandle) {
	if !a.fn.Expressions.Contains(h) {
		a.errorf(h, "expression handle %v out of range", h)
		return
	}
	a.info.refCounts[h.Index()]++
	if !a.available[h.Index()] {
		a.errorf(h, "expression %v referenced before it is in scope", h)
	}
}

// block analyzes a block and returns the expressions it brought into
// scope, so the caller can take them back out.
func (a *analyzer) block(body Block) []int {
	var marks []int
	for i := range body {
		marks = append(marks, a.statement(&body[i])...)
	}
	return marks
}

func (a *analyzer) unmark(marks []int) {
	for _, i := range marks {
		a.available[i] = false
	}
}

func (a *analyzer) statement(stmt *Statement) []int {
	switch s := stmt.Kind.(type) {
	case StmtEmit:
		return a.emit(s.Range)

	case StmtBlock:
		a.unmark(a.block(s.Body))

	case StmtIf:
		a.reference(s.Condition)
		a.unmark(a.block(s.Accept))
		a.unmark(a.block(s.Reject))

	case StmtSwitch:
		a.reference(s.Selector)
		for i := range s.Cases {
			a.unmark(a.block(s.Cases[i].Body))
		}

	case StmtLoop:
		// Expressions emitted by the body stay in scope through the
		// continuing block and the break-if condition.
		marks := a.block(s.Body)
		marks = append(marks, a.block(s.Continuing)...)
		if s.BreakIf.IsValid() {
			a.reference(s.BreakIf)
		}
		a.unmark(marks)

	case StmtReturn:
		if s.Value.IsValid() {
			a.reference(s.Value)
		}

	case StmtStore:
		a.reference(s.Pointer)
		a.reference(s.Value)

	case StmtImageStore:
		a.reference(s.Image)
		a.reference(s.Coordinate)
		if s.ArrayIndex.IsValid() {
			a.reference(s.ArrayIndex)
		}
		a.reference(s.Value)

	case StmtAtomic:
		a.reference(s.Pointer)
		a.reference(s.Value)
		if ex, ok := s.Fun.(AtomicExchange); ok && ex.Compare.IsValid() {
			a.reference(ex.Compare)
		}
		if s.Result.IsValid() {
			return a.designate(s.Result)
		}

	case StmtImageAtomic:
		a.reference(s.Image)
		a.reference(s.Coordinate)
		if s.ArrayIndex.IsValid() {
			a.reference(s.ArrayIndex)
		}
		if ex, ok := s.Fun.(AtomicExchange); ok && ex.Compare.IsValid() {
			a.reference(ex.Compare)
		}
		a.reference(s.Value)

	case StmtWorkGroupUniformLoad:
		a.reference(s.Pointer)
		return a.designate(s.Result)

	case StmtCall:
		for _, arg := range s.Arguments {
			a.reference(arg)
		}
		if s.Result.IsValid() {
			return a.designate(s.Result)
		}

	case StmtRayQuery:
		a.reference(s.Query)
		switch f := s.Fun.(type) {
		case RayQueryInitialize:
			a.reference(f.Acceleration)
			a.reference(f.Descriptor)
		case RayQueryProceed:
			return a.designate(f.Result)
		case RayQueryGenerateIntersection:
			a.reference(f.Hit)
		}

	case StmtSubgroupBallot:
		if s.Predicate.IsValid() {
			a.reference(s.Predicate)
		}
		return a.designate(s.Result)

	case StmtSubgroupGather:
		switch m := s.Mode.(type) {
		case GatherBroadcast:
			a.reference(m.Index)
		case GatherShuffle:
			a.reference(m.Index)
		case GatherShuffleDown:
			a.reference(m.Offset)
		case GatherShuffleUp:
			a.reference(m.Offset)
		case GatherShuffleXor:
			a.reference(m.Mask)
		case GatherQuadBroadcast:
			a.reference(m.Index)
		}
		a.reference(s.Argument)
		return a.designate(s.Result)

	case StmtSubgroupCollectiveOperation:
		a.reference(s.Argument)
		return a.designate(s.Result)
	}
	return nil
}

// emit brings a range of expressions into scope, in order, checking
// each one's operands against what is in scope before it.
func (a *analyzer) emit(r ExpressionRange) []int {
	var marks []int
	for h := range r.Iter() {
		if !a.fn.Expressions.Contains(h) {
			a.errorf(h, "emit range covers handle %v outside the arena", h)
			continue
		}
		i := h.Index()
		kind := a.fn.Expressions.Get(h).Kind
		if ExpressionEvalTime(kind) != EvalEmitted {
			a.errorf(h, "expression %v is evaluated outside any emit and must not be covered by one", h)
			continue
		}
		if a.emitted[i] {
			a.errorf(h, "expression %v covered by more than one emit", h)
			continue
		}
		forEachOperand(kind, a.reference)
		a.emitted[i] = true
		a.available[i] = true
		marks = append(marks, i)
	}
	return marks
}

// designate brings a statement's result expression into scope.
func (a *analyzer) designate(h ExpressionHandle) []int {
	if !a.fn.Expressions.Contains(h) {
		a.errorf(h, "result handle %v out of range", h)
		return nil
	}
	i := h.Index()
	if ExpressionEvalTime(a.fn.Expressions.Get(h).Kind) != EvalDesignatedResult {
		a.errorf(h, "expression %v designated as a result but is not a result expression", h)
		return nil
	}
	if a.designated[i] {
		a.errorf(h, "result expression %v designated by more than one statement", h)
		return nil
	}
	a.designated[i] = true
	a.available[i] = true
	return []int{i}
}

// forEachOperand calls f for every expression operand of kind,
// skipping absent optional handles.
func forEachOperand(kind ExpressionKind, f func(ExpressionHandle)) {
	opt := func(h ExpressionHandle) {
		if h.IsValid() {
			f(h)
		}
	}
	switch e := kind.(type) {
	case ExprCompose:
		for _, c := range e.Components {
			f(c)
		}
	case ExprAccess:
		f(e.Base)
		f(e.Index)
	case ExprAccessIndex:
		f(e.Base)
	case ExprSplat:
		f(e.Value)
	case ExprSwizzle:
		f(e.Vector)
	case ExprLoad:
		f(e.Pointer)
	case ExprImageSample:
		f(e.Image)
		f(e.Sampler)
		f(e.Coordinate)
		opt(e.ArrayIndex)
		opt(e.Offset)
		switch l := e.Level.(type) {
		case SampleLevelExact:
			f(l.Level)
		case SampleLevelBias:
			f(l.Bias)
		case SampleLevelGradient:
			f(l.X)
			f(l.Y)
		}
		opt(e.DepthRef)
	case ExprImageLoad:
		f(e.Image)
		f(e.Coordinate)
		opt(e.ArrayIndex)
		opt(e.Sample)
		opt(e.Level)
	case ExprImageQuery:
		f(e.Image)
		if q, ok := e.Query.(ImageQuerySize); ok {
			opt(q.Level)
		}
	case ExprUnary:
		f(e.Expr)
	case ExprBinary:
		f(e.Left)
		f(e.Right)
	case ExprSelect:
		f(e.Condition)
		f(e.Accept)
		f(e.Reject)
	case ExprDerivative:
		f(e.Expr)
	case ExprRelational:
		f(e.Argument)
	case ExprMath:
		f(e.Arg)
		opt(e.Arg1)
		opt(e.Arg2)
		opt(e.Arg3)
	case ExprAs:
		f(e.Expr)
	case ExprArrayLength:
		f(e.Array)
	case ExprRayQueryGetIntersection:
		f(e.Query)
	case ExprRayQueryVertexPositions:
		f(e.Query)
	}
}
