package ir

import (
	"fmt"

	"github.com/gogpu/shaderir/arena"
)

// ValidationError describes one defect found in a module. Validation
// accumulates errors instead of stopping at the first one.
type ValidationError struct {
	Message string
	// Optional context
	Function   string
	Expression ExpressionHandle
	Statement  int
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Function != "" {
		if e.Expression.IsValid() {
			return fmt.Sprintf("in function %s, expression %v: %s", e.Function, e.Expression, e.Message)
		}
		if e.Statement >= 0 {
			return fmt.Sprintf("in function %s, statement %d: %s", e.Function, e.Statement, e.Message)
		}
		return fmt.Sprintf("in function %s: %s", e.Function, e.Message)
	}
	if e.Expression.IsValid() {
		return fmt.Sprintf("expression %v: %s", e.Expression, e.Message)
	}
	return e.Message
}

// Validator validates IR modules.
type Validator struct {
	module *Module
	// exprClasses classifies Module.GlobalExpressions, computed once up
	// front.
	exprClasses []exprClass
	errors      []ValidationError
	context     validationContext
}

// validationContext holds the function currently being validated.
type validationContext struct {
	function     *Function
	functionName string
	// handle is the function's own handle, or the zero handle for an
	// entry point body. Callees must precede it in the arena.
	handle FunctionHandle
}

// stmtContext tracks what the enclosing statements permit.
type stmtContext struct {
	// breakable: a loop or switch encloses this statement.
	breakable bool
	// continuable: a loop body encloses this statement.
	continuable bool
	// inContinuing: the continuing block of some loop encloses this
	// statement. Return and kill stay forbidden even inside nested
	// constructs; break and continue become legal again once a nested
	// loop or switch provides a target of their own.
	inContinuing bool
}

// Validate checks a module against the IR rules: handle resolvability
// and forward-reference order, the restrictions on global expressions,
// function ordering, statement structure, and entry point interfaces.
// It returns the accumulated errors, or nil if the module is valid.
func Validate(module *Module) ([]ValidationError, error) {
	if module == nil {
		return nil, fmt.Errorf("module is nil")
	}

	v := &Validator{
		module:      module,
		exprClasses: classifyGlobalExpressions(module),
	}

	v.validateTypes()
	v.validateGlobalGraph()
	v.validateGlobalExpressions()
	v.validateConstants()
	v.validateOverrides()
	v.validateGlobalVariables()
	v.validateFunctions()
	v.validateEntryPoints()

	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

// validateTypes checks every type definition, including that type
// handles inside a type only point backwards in the arena.
func (v *Validator) validateTypes() {
	for handle, typ := range v.module.Types.Iter() {
		v.validateType(handle, typ)
	}
}

func validScalarWidth(w uint8) bool {
	return w == 1 || w == 2 || w == 4 || w == 8
}

func validVectorSize(s VectorSize) bool {
	return s == Vec2 || s == Vec3 || s == Vec4
}

// backRef reports whether inner points strictly backwards from handle,
// which is what the arena ordering invariant demands of types.
func backRef(handle, inner TypeHandle) bool {
	return inner.IsValid() && inner.Index() < handle.Index()
}

func (v *Validator) validateType(handle TypeHandle, typ *Type) {
	if typ.Inner == nil {
		v.addError(fmt.Sprintf("type %v has nil inner type", handle))
		return
	}

	switch inner := typ.Inner.(type) {
	case ScalarType:
		if !validScalarWidth(inner.Width) {
			v.addError(fmt.Sprintf("type %v: scalar width must be 1, 2, 4, or 8 bytes, got %d", handle, inner.Width))
		}

	case VectorType:
		if !validVectorSize(inner.Size) {
			v.addError(fmt.Sprintf("type %v: vector size must be 2, 3, or 4, got %d", handle, inner.Size))
		}
		if !validScalarWidth(inner.Scalar.Width) {
			v.addError(fmt.Sprintf("type %v: vector scalar width must be 1, 2, 4, or 8 bytes, got %d", handle, inner.Scalar.Width))
		}

	case MatrixType:
		if !validVectorSize(inner.Columns) || !validVectorSize(inner.Rows) {
			v.addError(fmt.Sprintf("type %v: matrix dimensions must be 2, 3, or 4, got %dx%d", handle, inner.Columns, inner.Rows))
		}
		if inner.Scalar.Kind != ScalarFloat {
			v.addError(fmt.Sprintf("type %v: matrix scalar must be float, got %v", handle, inner.Scalar.Kind))
		}

	case AtomicType:
		switch inner.Scalar.Kind {
		case ScalarSint, ScalarUint:
		case ScalarFloat:
			if inner.Scalar.Width != 4 {
				v.addError(fmt.Sprintf("type %v: atomic float must be 32-bit", handle))
			}
		default:
			v.addError(fmt.Sprintf("type %v: atomics do not support scalar kind %v", handle, inner.Scalar.Kind))
		}

	case PointerType:
		if !backRef(handle, inner.Base) {
			v.addError(fmt.Sprintf("type %v: pointer base %v must precede it in the arena", handle, inner.Base))
		}

	case ValuePointerType:
		if inner.Size != 0 && !validVectorSize(inner.Size) {
			v.addError(fmt.Sprintf("type %v: value pointer size must be 0, 2, 3, or 4, got %d", handle, inner.Size))
		}

	case ArrayType:
		if !backRef(handle, inner.Base) {
			v.addError(fmt.Sprintf("type %v: array base %v must precede it in the arena", handle, inner.Base))
		}
		v.validateArraySize(handle, inner.Size)

	case StructType:
		v.validateStruct(handle, inner)

	case ImageType:
		if inner.Class == nil {
			v.addError(fmt.Sprintf("type %v: image has nil class", handle))
		}

	case SamplerType, AccelerationStructureType, RayQueryType:
		// Nothing to check.

	case BindingArrayType:
		if !backRef(handle, inner.Base) {
			v.addError(fmt.Sprintf("type %v: binding array base %v must precede it in the arena", handle, inner.Base))
		}
		v.validateArraySize(handle, inner.Size)
	}
}

func (v *Validator) validateArraySize(handle TypeHandle, size ArraySize) {
	switch size.Kind {
	case ArraySizeConstant:
		if size.Count == 0 {
			v.addError(fmt.Sprintf("type %v: array length must be positive", handle))
		}
	case ArraySizePending:
		if !v.module.Overrides.Contains(size.Pending) {
			v.addError(fmt.Sprintf("type %v: pending array size names override %v, which does not exist", handle, size.Pending))
		}
	}
}

func (v *Validator) validateStruct(handle TypeHandle, inner StructType) {
	if len(inner.Members) == 0 {
		v.addError(fmt.Sprintf("type %v: struct must have at least one member", handle))
		return
	}
	memberNames := make(map[string]bool)
	for i, member := range inner.Members {
		if member.Name != "" {
			if memberNames[member.Name] {
				v.addError(fmt.Sprintf("type %v: duplicate struct member name %q", handle, member.Name))
			}
			memberNames[member.Name] = true
		}
		if !backRef(handle, member.Type) {
			v.addError(fmt.Sprintf("type %v: member %q type %v must precede it in the arena", handle, member.Name, member.Type))
			continue
		}
		// Only the final member may be dynamically sized.
		if i != len(inner.Members)-1 && !v.typeIsSized(member.Type) {
			v.addError(fmt.Sprintf("type %v: dynamically sized member %q must be last", handle, member.Name))
		}
	}
}

// typeIsSized reports whether the type's size is fixed before runtime.
// A pending size still counts as sized; it is settled at pipeline
// creation, before any dispatch.
func (v *Validator) typeIsSized(handle TypeHandle) bool {
	typ, ok := v.module.Types.TryGet(handle)
	if !ok {
		return false
	}
	switch inner := typ.Inner.(type) {
	case ArrayType:
		return inner.Size.Kind != ArraySizeDynamic
	case StructType:
		if len(inner.Members) == 0 {
			return true
		}
		return v.typeIsSized(inner.Members[len(inner.Members)-1].Type)
	default:
		return true
	}
}

// Joint type/global-expression graph. Types and global expressions may
// refer to each other (a pending array size names an override whose
// initializer is a global expression using earlier types), so plain
// per-arena ordering is not enough: the combined graph must still be
// acyclic.

type graphNode struct {
	kind graphNodeKind
	idx  int
}

type graphNodeKind uint8

const (
	nodeType graphNodeKind = iota
	nodeGlobalExpr
	nodeConstant
	nodeOverride
	nodeGlobalVar
)

func (n graphNode) String() string {
	switch n.kind {
	case nodeType:
		return fmt.Sprintf("type [%d]", n.idx)
	case nodeGlobalExpr:
		return fmt.Sprintf("global expression [%d]", n.idx)
	case nodeConstant:
		return fmt.Sprintf("constant [%d]", n.idx)
	case nodeOverride:
		return fmt.Sprintf("override [%d]", n.idx)
	default:
		return fmt.Sprintf("global variable [%d]", n.idx)
	}
}

// validateGlobalGraph verifies that the module-level declarations
// admit an order that visits every item after everything it uses.
func (v *Validator) validateGlobalGraph() {
	g := &globalGraph{module: v.module, state: make(map[graphNode]uint8)}
	for h := range v.module.Types.Iter() {
		g.visit(graphNode{nodeType, h.Index()})
	}
	for h := range v.module.GlobalExpressions.Iter() {
		g.visit(graphNode{nodeGlobalExpr, h.Index()})
	}
	for _, cycle := range g.cycles {
		v.addError(fmt.Sprintf("%v participates in a declaration cycle", cycle))
	}
}

type globalGraph struct {
	module *Module
	// state: 0 unvisited, 1 in progress, 2 done.
	state  map[graphNode]uint8
	cycles []graphNode
}

func (g *globalGraph) visit(n graphNode) {
	switch g.state[n] {
	case 1:
		g.cycles = append(g.cycles, n)
		return
	case 2:
		return
	}
	g.state[n] = 1
	g.edges(n)
	g.state[n] = 2
}

func (g *globalGraph) edges(n graphNode) {
	m := g.module
	switch n.kind {
	case nodeType:
		typ, ok := m.Types.TryGet(arena.HandleFromIndex[Type](n.idx))
		if !ok {
			return
		}
		switch inner := typ.Inner.(type) {
		case PointerType:
			g.visitType(inner.Base)
		case ArrayType:
			g.visitType(inner.Base)
			if inner.Size.Kind == ArraySizePending {
				g.visitOverride(inner.Size.Pending)
			}
		case BindingArrayType:
			g.visitType(inner.Base)
			if inner.Size.Kind == ArraySizePending {
				g.visitOverride(inner.Size.Pending)
			}
		case StructType:
			for _, member := range inner.Members {
				g.visitType(member.Type)
			}
		}
	case nodeGlobalExpr:
		expr, ok := m.GlobalExpressions.TryGet(arena.HandleFromIndex[Expression](n.idx))
		if !ok {
			return
		}
		forEachOperand(expr.Kind, func(op ExpressionHandle) {
			if op.IsValid() {
				g.visit(graphNode{nodeGlobalExpr, op.Index()})
			}
		})
		switch kind := expr.Kind.(type) {
		case ExprConstant:
			if m.Constants.Contains(kind.Constant) {
				g.visit(graphNode{nodeConstant, kind.Constant.Index()})
			}
		case ExprOverride:
			g.visitOverride(kind.Override)
		case ExprZeroValue:
			g.visitType(kind.Type)
		case ExprCompose:
			g.visitType(kind.Type)
		case ExprGlobalVariable:
			if m.GlobalVariables.Contains(kind.Variable) {
				g.visit(graphNode{nodeGlobalVar, kind.Variable.Index()})
			}
		}
	case nodeConstant:
		c, ok := m.Constants.TryGet(arena.HandleFromIndex[Constant](n.idx))
		if !ok {
			return
		}
		g.visitType(c.Type)
		g.visitExpr(c.Init)
	case nodeOverride:
		o, ok := m.Overrides.TryGet(arena.HandleFromIndex[Override](n.idx))
		if !ok {
			return
		}
		g.visitType(o.Type)
		g.visitExpr(o.Init)
	case nodeGlobalVar:
		gv, ok := m.GlobalVariables.TryGet(arena.HandleFromIndex[GlobalVariable](n.idx))
		if !ok {
			return
		}
		g.visitType(gv.Type)
		g.visitExpr(gv.Init)
	}
}

func (g *globalGraph) visitType(h TypeHandle) {
	if g.module.Types.Contains(h) {
		g.visit(graphNode{nodeType, h.Index()})
	}
}

func (g *globalGraph) visitOverride(h OverrideHandle) {
	if g.module.Overrides.Contains(h) {
		g.visit(graphNode{nodeOverride, h.Index()})
	}
}

func (g *globalGraph) visitExpr(h ExpressionHandle) {
	if h.IsValid() && g.module.GlobalExpressions.Contains(h) {
		g.visit(graphNode{nodeGlobalExpr, h.Index()})
	}
}

// validateGlobalExpressions checks the module's initializer arena:
// operands only point backwards, every expression is from the override
// expression set, and every handle it holds resolves.
func (v *Validator) validateGlobalExpressions() {
	for handle, expr := range v.module.GlobalExpressions.Iter() {
		if expr.Kind == nil {
			v.addErrorInExpression(handle, "expression has nil kind")
			continue
		}
		if _, isOverride := expr.Kind.(ExprOverride); !isOverride && !constExprVariant(expr.Kind) {
			v.addErrorInExpression(handle, fmt.Sprintf("%T is not allowed in module-level expressions", expr.Kind))
			continue
		}
		forEachOperand(expr.Kind, func(op ExpressionHandle) {
			if !op.IsValid() || op.Index() >= handle.Index() {
				v.addErrorInExpression(handle, fmt.Sprintf("operand %v must precede it in the arena", op))
			}
		})
		v.validateExpressionHandles(handle, expr, nil)
	}
}

func (v *Validator) validateConstants() {
	for handle, c := range v.module.Constants.Iter() {
		if !v.module.Types.Contains(c.Type) {
			v.addError(fmt.Sprintf("constant %v (%s): type %v does not exist", handle, c.Name, c.Type))
		}
		if !v.module.GlobalExpressions.Contains(c.Init) {
			v.addError(fmt.Sprintf("constant %v (%s): initializer %v does not exist", handle, c.Name, c.Init))
			continue
		}
		if v.exprClasses[c.Init.Index()] != classConst {
			v.addError(fmt.Sprintf("constant %v (%s): initializer is not a constant expression", handle, c.Name))
		}
	}
}

func (v *Validator) validateOverrides() {
	ids := make(map[uint16]bool)
	for handle, o := range v.module.Overrides.Iter() {
		if o.HasID {
			if ids[o.ID] {
				v.addError(fmt.Sprintf("override %v (%s): duplicate id %d", handle, o.Name, o.ID))
			}
			ids[o.ID] = true
		}
		if !v.module.Types.Contains(o.Type) {
			v.addError(fmt.Sprintf("override %v (%s): type %v does not exist", handle, o.Name, o.Type))
		}
		if o.Init.IsValid() {
			if !v.module.GlobalExpressions.Contains(o.Init) {
				v.addError(fmt.Sprintf("override %v (%s): initializer %v does not exist", handle, o.Name, o.Init))
			} else if v.exprClasses[o.Init.Index()] == classRuntime {
				v.addError(fmt.Sprintf("override %v (%s): initializer is not an override expression", handle, o.Name))
			}
		}
	}
}

func (v *Validator) validateGlobalVariables() {
	bindings := make(map[ResourceBinding]bool)
	for handle, gv := range v.module.GlobalVariables.Iter() {
		if !v.module.Types.Contains(gv.Type) {
			v.addError(fmt.Sprintf("global variable %v (%s): type %v does not exist", handle, gv.Name, gv.Type))
		}
		if gv.Binding != nil {
			if bindings[*gv.Binding] {
				v.addError(fmt.Sprintf("global variable %q: duplicate binding @group(%d) @binding(%d)",
					gv.Name, gv.Binding.Group, gv.Binding.Binding))
			}
			bindings[*gv.Binding] = true
		}
		if gv.Init.IsValid() {
			if gv.Space == SpaceHandle {
				v.addError(fmt.Sprintf("global variable %q: handle-space variables take no initializer", gv.Name))
			}
			if !v.module.GlobalExpressions.Contains(gv.Init) {
				v.addError(fmt.Sprintf("global variable %q: initializer %v does not exist", gv.Name, gv.Init))
			} else if v.exprClasses[gv.Init.Index()] == classRuntime {
				v.addError(fmt.Sprintf("global variable %q: initializer is not an override expression", gv.Name))
			}
		}
		if gv.Access != 0 && gv.Space != SpaceStorage && gv.Space != SpaceHandle {
			v.addError(fmt.Sprintf("global variable %q: access flags only apply to storage resources", gv.Name))
		}
	}
}

// validateFunctions checks each function in arena order. A function
// may only call functions that precede it, which rules out recursion.
func (v *Validator) validateFunctions() {
	for handle, fn := range v.module.Functions.Iter() {
		v.context = validationContext{
			function:     fn,
			functionName: fn.Name,
			handle:       handle,
		}
		v.validateFunction(fn)
	}
	v.context = validationContext{}
}

func (v *Validator) validateFunction(fn *Function) {
	for i, arg := range fn.Arguments {
		if !v.module.Types.Contains(arg.Type) {
			v.addErrorInFunction(fmt.Sprintf("argument %d (%s): type %v does not exist", i, arg.Name, arg.Type))
		}
	}
	if fn.Result != nil && !v.module.Types.Contains(fn.Result.Type) {
		v.addErrorInFunction(fmt.Sprintf("result type %v does not exist", fn.Result.Type))
	}

	for handle, lv := range fn.LocalVariables.Iter() {
		if !v.module.Types.Contains(lv.Type) {
			v.addErrorInFunction(fmt.Sprintf("local variable %v (%s): type %v does not exist", handle, lv.Name, lv.Type))
		}
		if lv.Init.IsValid() && !fn.Expressions.Contains(lv.Init) {
			v.addErrorInFunction(fmt.Sprintf("local variable %q: initializer %v does not exist", lv.Name, lv.Init))
		}
	}

	for handle, expr := range fn.Expressions.Iter() {
		if expr.Kind == nil {
			v.addErrorInExpression(handle, "expression has nil kind")
			continue
		}
		forEachOperand(expr.Kind, func(op ExpressionHandle) {
			if !op.IsValid() || op.Index() >= handle.Index() {
				v.addErrorInExpression(handle, fmt.Sprintf("operand %v must precede it in the arena", op))
			}
		})
		v.validateExpressionHandles(handle, expr, fn)
	}

	v.validateBlock(fn.Body, stmtContext{})

	// Scope and evaluation-time rules.
	_, errs := AnalyzeFunction(v.module, fn)
	for _, e := range errs {
		e.Function = v.context.functionName
		v.errors = append(v.errors, e)
	}
}

// validateExpressionHandles checks the non-expression handles an
// expression holds: types, constants, variables, functions. fn is nil
// for module-level expressions.
func (v *Validator) validateExpressionHandles(handle ExpressionHandle, expr *Expression, fn *Function) {
	switch kind := expr.Kind.(type) {
	case Literal:
		switch kind.Value.(type) {
		case LiteralAbstractInt, LiteralAbstractFloat:
			v.addErrorInExpression(handle, "abstract literals must be concretized before validation")
		case nil:
			v.addErrorInExpression(handle, "literal has nil value")
		}

	case ExprConstant:
		if !v.module.Constants.Contains(kind.Constant) {
			v.addErrorInExpression(handle, fmt.Sprintf("constant %v does not exist", kind.Constant))
		}

	case ExprOverride:
		if !v.module.Overrides.Contains(kind.Override) {
			v.addErrorInExpression(handle, fmt.Sprintf("override %v does not exist", kind.Override))
		}

	case ExprZeroValue:
		if !v.module.Types.Contains(kind.Type) {
			v.addErrorInExpression(handle, fmt.Sprintf("type %v does not exist", kind.Type))
		} else if !v.typeIsSized(kind.Type) {
			v.addErrorInExpression(handle, "zero value of a dynamically sized type")
		}

	case ExprCompose:
		if !v.module.Types.Contains(kind.Type) {
			v.addErrorInExpression(handle, fmt.Sprintf("type %v does not exist", kind.Type))
		}

	case ExprSplat:
		if !validVectorSize(kind.Size) {
			v.addErrorInExpression(handle, fmt.Sprintf("splat size must be 2, 3, or 4, got %d", kind.Size))
		}

	case ExprSwizzle:
		if !validVectorSize(kind.Size) {
			v.addErrorInExpression(handle, fmt.Sprintf("swizzle size must be 2, 3, or 4, got %d", kind.Size))
		}
		for i := 0; i < int(kind.Size) && i < len(kind.Pattern); i++ {
			if kind.Pattern[i] > SwizzleW {
				v.addErrorInExpression(handle, fmt.Sprintf("pattern[%d] invalid component %d", i, kind.Pattern[i]))
			}
		}

	case ExprFunctionArgument:
		if fn == nil {
			v.addErrorInExpression(handle, "function argument referenced outside a function")
		} else if int(kind.Index) >= len(fn.Arguments) {
			v.addErrorInExpression(handle, fmt.Sprintf("argument index %d out of range (function has %d)", kind.Index, len(fn.Arguments)))
		}

	case ExprGlobalVariable:
		if !v.module.GlobalVariables.Contains(kind.Variable) {
			v.addErrorInExpression(handle, fmt.Sprintf("global variable %v does not exist", kind.Variable))
		}

	case ExprLocalVariable:
		if fn == nil {
			v.addErrorInExpression(handle, "local variable referenced outside a function")
		} else if !fn.LocalVariables.Contains(kind.Variable) {
			v.addErrorInExpression(handle, fmt.Sprintf("local variable %v does not exist", kind.Variable))
		}

	case ExprImageSample:
		if kind.Level == nil {
			v.addErrorInExpression(handle, "image sample has nil level")
		}
		if kind.HasGather && kind.Gather > SwizzleW {
			v.addErrorInExpression(handle, fmt.Sprintf("invalid gather component %d", kind.Gather))
		}

	case ExprImageQuery:
		if kind.Query == nil {
			v.addErrorInExpression(handle, "image query has nil query")
		}

	case ExprCallResult:
		v.checkCallee(handle, kind.Function)

	case ExprAtomicResult:
		if !v.module.Types.Contains(kind.Type) {
			v.addErrorInExpression(handle, fmt.Sprintf("type %v does not exist", kind.Type))
		}

	case ExprWorkGroupUniformLoadResult:
		if !v.module.Types.Contains(kind.Type) {
			v.addErrorInExpression(handle, fmt.Sprintf("type %v does not exist", kind.Type))
		}

	case ExprSubgroupOperationResult:
		if !v.module.Types.Contains(kind.Type) {
			v.addErrorInExpression(handle, fmt.Sprintf("type %v does not exist", kind.Type))
		}
	}
}

// checkCallee verifies that a called function exists and strictly
// precedes the caller in the arena.
func (v *Validator) checkCallee(handle ExpressionHandle, callee FunctionHandle) {
	if !v.module.Functions.Contains(callee) {
		v.addErrorInExpression(handle, fmt.Sprintf("function %v does not exist", callee))
		return
	}
	if v.context.handle.IsValid() && callee.Index() >= v.context.handle.Index() {
		v.addErrorInExpression(handle, fmt.Sprintf("call of function %v, which does not precede the caller", callee))
	}
}

func (v *Validator) validateBlock(block Block, ctx stmtContext) {
	for i := range block {
		v.validateStatement(i, &block[i], ctx)
	}
}

func (v *Validator) validateStatement(index int, stmt *Statement, ctx stmtContext) {
	fn := v.context.function
	switch kind := stmt.Kind.(type) {
	case StmtEmit:
		if fn != nil {
			for h := range kind.Range.Iter() {
				if !fn.Expressions.Contains(h) {
					v.addErrorInStatement(index, fmt.Sprintf("emit range covers %v, outside the arena", h))
					break
				}
			}
		}

	case StmtBlock:
		v.validateBlock(kind.Body, ctx)

	case StmtIf:
		v.checkExpr(index, kind.Condition, "condition")
		v.validateBlock(kind.Accept, ctx)
		v.validateBlock(kind.Reject, ctx)

	case StmtSwitch:
		v.checkExpr(index, kind.Selector, "selector")
		v.validateSwitch(index, kind, ctx)

	case StmtLoop:
		body := ctx
		body.breakable = true
		body.continuable = true
		v.validateBlock(kind.Body, body)

		continuing := ctx
		continuing.breakable = false
		continuing.continuable = false
		continuing.inContinuing = true
		v.validateBlock(kind.Continuing, continuing)

		if kind.BreakIf.IsValid() {
			v.checkExpr(index, kind.BreakIf, "break-if")
		}

	case StmtBreak:
		if !ctx.breakable {
			v.addErrorInStatement(index, "break has no enclosing loop or switch")
		}

	case StmtContinue:
		if !ctx.continuable {
			v.addErrorInStatement(index, "continue has no enclosing loop")
		}

	case StmtReturn:
		if ctx.inContinuing {
			v.addErrorInStatement(index, "return inside a continuing block")
		}
		if fn != nil {
			switch {
			case kind.Value.IsValid() && fn.Result == nil:
				v.addErrorInStatement(index, "return with a value from a function without a result")
			case !kind.Value.IsValid() && fn.Result != nil:
				v.addErrorInStatement(index, "return without a value from a function with a result")
			}
		}
		if kind.Value.IsValid() {
			v.checkExpr(index, kind.Value, "return value")
		}

	case StmtKill:
		if ctx.inContinuing {
			v.addErrorInStatement(index, "kill inside a continuing block")
		}

	case StmtBarrier:
		// Flag combinations are all meaningful.

	case StmtStore:
		v.checkExpr(index, kind.Pointer, "pointer")
		v.checkExpr(index, kind.Value, "value")

	case StmtImageStore:
		v.checkExpr(index, kind.Image, "image")
		v.checkExpr(index, kind.Coordinate, "coordinate")
		if kind.ArrayIndex.IsValid() {
			v.checkExpr(index, kind.ArrayIndex, "array index")
		}
		v.checkExpr(index, kind.Value, "value")

	case StmtAtomic:
		v.checkExpr(index, kind.Pointer, "pointer")
		v.checkExpr(index, kind.Value, "value")
		v.validateAtomic(index, kind)

	case StmtImageAtomic:
		v.checkExpr(index, kind.Image, "image")
		v.checkExpr(index, kind.Coordinate, "coordinate")
		if kind.ArrayIndex.IsValid() {
			v.checkExpr(index, kind.ArrayIndex, "array index")
		}
		v.checkExpr(index, kind.Value, "value")
		if kind.Fun == nil {
			v.addErrorInStatement(index, "image atomic has nil function")
		}

	case StmtWorkGroupUniformLoad:
		v.checkExpr(index, kind.Pointer, "pointer")
		v.checkResult(index, kind.Result, func(k ExpressionKind) bool {
			_, ok := k.(ExprWorkGroupUniformLoadResult)
			return ok
		}, "workgroup uniform load result")

	case StmtCall:
		for i, arg := range kind.Arguments {
			v.checkExpr(index, arg, fmt.Sprintf("argument %d", i))
		}
		v.validateCall(index, kind)

	case StmtRayQuery:
		v.checkExpr(index, kind.Query, "query")
		v.validateRayQuery(index, kind)

	case StmtSubgroupBallot:
		if kind.Predicate.IsValid() {
			v.checkExpr(index, kind.Predicate, "predicate")
		}
		v.checkResult(index, kind.Result, func(k ExpressionKind) bool {
			_, ok := k.(ExprSubgroupBallotResult)
			return ok
		}, "subgroup ballot result")

	case StmtSubgroupGather:
		if kind.Mode == nil {
			v.addErrorInStatement(index, "subgroup gather has nil mode")
		}
		v.checkExpr(index, kind.Argument, "argument")
		v.checkResult(index, kind.Result, func(k ExpressionKind) bool {
			_, ok := k.(ExprSubgroupOperationResult)
			return ok
		}, "subgroup operation result")

	case StmtSubgroupCollectiveOperation:
		v.checkExpr(index, kind.Argument, "argument")
		v.checkResult(index, kind.Result, func(k ExpressionKind) bool {
			_, ok := k.(ExprSubgroupOperationResult)
			return ok
		}, "subgroup operation result")

	case nil:
		v.addErrorInStatement(index, "statement has nil kind")
	}
}

func (v *Validator) validateSwitch(index int, kind StmtSwitch, ctx stmtContext) {
	caseCtx := ctx
	caseCtx.breakable = true

	defaults := 0
	seen := make(map[SwitchValue]bool)
	for i, c := range kind.Cases {
		if c.Value.Kind == SwitchDefault {
			defaults++
		} else if seen[c.Value] {
			v.addErrorInStatement(index, fmt.Sprintf("duplicate switch case value %d", c.Value.Value))
		}
		seen[c.Value] = true

		if c.FallThrough && i == len(kind.Cases)-1 {
			v.addErrorInStatement(index, "last switch case must not fall through")
		}
		v.validateBlock(c.Body, caseCtx)
	}
	if defaults != 1 {
		v.addErrorInStatement(index, fmt.Sprintf("switch must have exactly one default case, found %d", defaults))
	}
}

func (v *Validator) validateAtomic(index int, kind StmtAtomic) {
	if kind.Fun == nil {
		v.addErrorInStatement(index, "atomic has nil function")
		return
	}
	exchange, isExchange := kind.Fun.(AtomicExchange)
	if exchange.Compare.IsValid() {
		v.checkExpr(index, exchange.Compare, "comparison")
	}

	if !kind.Result.IsValid() {
		if isExchange {
			v.addErrorInStatement(index, "atomic exchange must designate a result")
		}
		return
	}

	fn := v.context.function
	if fn == nil || !fn.Expressions.Contains(kind.Result) {
		v.addErrorInStatement(index, fmt.Sprintf("result expression %v does not exist", kind.Result))
		return
	}
	result, ok := fn.Expressions.Get(kind.Result).Kind.(ExprAtomicResult)
	if !ok {
		v.addErrorInStatement(index, fmt.Sprintf("result expression %v is not an atomic result", kind.Result))
		return
	}
	// The result shape must agree with the operation: a comparison
	// result exactly for a compare-exchange.
	if result.Comparison != (isExchange && exchange.Compare.IsValid()) {
		if result.Comparison {
			v.addErrorInStatement(index, "comparison result designated by a non-comparing atomic")
		} else {
			v.addErrorInStatement(index, "compare-exchange must designate a comparison result")
		}
	}
}

func (v *Validator) validateCall(index int, kind StmtCall) {
	callee, ok := v.module.Functions.TryGet(kind.Function)
	if !ok {
		v.addErrorInStatement(index, fmt.Sprintf("function %v does not exist", kind.Function))
		return
	}
	if v.context.handle.IsValid() && kind.Function.Index() >= v.context.handle.Index() {
		v.addErrorInStatement(index, fmt.Sprintf("call of function %v, which does not precede the caller", kind.Function))
	}
	if len(kind.Arguments) != len(callee.Arguments) {
		v.addErrorInStatement(index, fmt.Sprintf("call passes %d arguments, function %q takes %d",
			len(kind.Arguments), callee.Name, len(callee.Arguments)))
	}

	switch {
	case kind.Result.IsValid() && callee.Result == nil:
		v.addErrorInStatement(index, fmt.Sprintf("call designates a result but %q returns nothing", callee.Name))
	case !kind.Result.IsValid() && callee.Result != nil:
		v.addErrorInStatement(index, fmt.Sprintf("call of %q must designate a result", callee.Name))
	}
	if kind.Result.IsValid() {
		v.checkResult(index, kind.Result, func(k ExpressionKind) bool {
			r, ok := k.(ExprCallResult)
			return ok && r.Function == kind.Function
		}, "call result for this function")
	}
}

func (v *Validator) validateRayQuery(index int, kind StmtRayQuery) {
	switch f := kind.Fun.(type) {
	case RayQueryInitialize:
		v.checkExpr(index, f.Acceleration, "acceleration structure")
		v.checkExpr(index, f.Descriptor, "ray descriptor")
	case RayQueryProceed:
		v.checkResult(index, f.Result, func(k ExpressionKind) bool {
			_, ok := k.(ExprRayQueryProceedResult)
			return ok
		}, "ray query proceed result")
	case RayQueryGenerateIntersection:
		v.checkExpr(index, f.Hit, "hit distance")
	case RayQueryConfirmIntersection, RayQueryTerminate:
	case nil:
		v.addErrorInStatement(index, "ray query has nil function")
	}
}

// checkExpr verifies a statement's expression handle resolves in the
// current function.
func (v *Validator) checkExpr(index int, handle ExpressionHandle, what string) {
	if v.context.function == nil {
		return
	}
	if !v.context.function.Expressions.Contains(handle) {
		v.addErrorInStatement(index, fmt.Sprintf("%s expression %v does not exist", what, handle))
	}
}

// checkResult verifies a designated result handle resolves and has the
// expected result kind.
func (v *Validator) checkResult(index int, handle ExpressionHandle, want func(ExpressionKind) bool, what string) {
	fn := v.context.function
	if fn == nil {
		return
	}
	if !fn.Expressions.Contains(handle) {
		v.addErrorInStatement(index, fmt.Sprintf("result expression %v does not exist", handle))
		return
	}
	if !want(fn.Expressions.Get(handle).Kind) {
		v.addErrorInStatement(index, fmt.Sprintf("result expression %v is not a %s", handle, what))
	}
}

// validateEntryPoints checks stage interfaces. Entry point bodies are
// validated like functions, with the zero function handle so they may
// call anything in the arena.
func (v *Validator) validateEntryPoints() {
	type stageName struct {
		stage ShaderStage
		name  string
	}
	names := make(map[stageName]bool)

	for i := range v.module.EntryPoints {
		ep := &v.module.EntryPoints[i]
		if ep.Name == "" {
			v.addError(fmt.Sprintf("entry point %d has empty name", i))
		}
		key := stageName{ep.Stage, ep.Name}
		if names[key] {
			v.addError(fmt.Sprintf("duplicate entry point %q for its stage", ep.Name))
		}
		names[key] = true

		v.context = validationContext{
			function:     &ep.Function,
			functionName: ep.Name,
		}
		v.validateFunction(&ep.Function)
		v.validateEntryPointInterface(ep)
		v.context = validationContext{}
	}
}

func (v *Validator) validateEntryPointInterface(ep *EntryPoint) {
	if ep.EarlyDepthTest != nil && ep.Stage != StageFragment {
		v.addErrorInFunction("early depth test on a non-fragment entry point")
	}

	switch ep.Stage {
	case StageVertex:
		if ep.Function.Result == nil || !v.hasPositionBuiltin(ep.Function.Result) {
			v.addErrorInFunction("vertex entry point must return the position builtin")
		}

	case StageCompute:
		fixed := ep.WorkgroupSize[0] != 0 && ep.WorkgroupSize[1] != 0 && ep.WorkgroupSize[2] != 0
		if ep.WorkgroupSizeOverrides == nil {
			if !fixed {
				v.addErrorInFunction("compute entry point workgroup size must be non-zero")
			}
			return
		}
		// Each dimension comes from the fixed size or from an override
		// expression.
		for axis, h := range ep.WorkgroupSizeOverrides {
			if !h.IsValid() {
				if ep.WorkgroupSize[axis] == 0 {
					v.addErrorInFunction(fmt.Sprintf("workgroup size dimension %d is neither fixed nor overridden", axis))
				}
				continue
			}
			if !v.module.GlobalExpressions.Contains(h) {
				v.addErrorInFunction(fmt.Sprintf("workgroup size override %v does not exist", h))
			} else if v.exprClasses[h.Index()] == classRuntime {
				v.addErrorInFunction(fmt.Sprintf("workgroup size override %v is not an override expression", h))
			}
		}

	default:
		if ep.WorkgroupSizeOverrides != nil {
			v.addErrorInFunction("workgroup size overrides on a non-compute entry point")
		}
	}
}

// hasPositionBuiltin reports whether the result carries the position
// builtin, directly or through a struct member.
func (v *Validator) hasPositionBuiltin(result *FunctionResult) bool {
	if isPositionBuiltin(result.Binding) {
		return true
	}
	typ, ok := v.module.Types.TryGet(result.Type)
	if !ok {
		return false
	}
	structType, ok := typ.Inner.(StructType)
	if !ok {
		return false
	}
	for _, member := range structType.Members {
		if isPositionBuiltin(member.Binding) {
			return true
		}
	}
	return false
}

func isPositionBuiltin(binding Binding) bool {
	b, ok := binding.(BuiltinBinding)
	return ok && (b.Builtin == BuiltinPosition || b.Builtin == BuiltinPositionInvariant)
}

func (v *Validator) addError(msg string) {
	v.errors = append(v.errors, ValidationError{Message: msg, Statement: -1})
}

func (v *Validator) addErrorInFunction(msg string) {
	v.errors = append(v.errors, ValidationError{
		Message:   msg,
		Function:  v.context.functionName,
		Statement: -1,
	})
}

func (v *Validator) addErrorInExpression(handle ExpressionHandle, msg string) {
	v.errors = append(v.errors, ValidationError{
		Message:    msg,
		Function:   v.context.functionName,
		Expression: handle,
		Statement:  -1,
	})
}

func (v *Validator) addErrorInStatement(index int, msg string) {
	v.errors = append(v.errors, ValidationError{
		Message:   msg,
		Function:  v.context.functionName,
		Statement: index,
	})
}
