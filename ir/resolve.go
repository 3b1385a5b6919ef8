package ir

import "fmt"

// TypeResolution is the type of an expression: either a handle into
// Module.Types, or an inline shape for types that need not exist in
// the arena (scalars produced by operators, pointers produced by
// indexing through a pointer, and so on).
type TypeResolution struct {
	// Handle is set when the type lives in the module's arena.
	Handle TypeHandle
	// Value is the inline shape, used when Handle is the zero handle.
	Value TypeInner
}

// Inner returns the resolved shape, following the handle if needed.
func (r TypeResolution) Inner(m *Module) TypeInner {
	if r.Handle.IsValid() {
		return m.Types.Get(r.Handle).Inner
	}
	return r.Value
}

func handleRes(h TypeHandle) TypeResolution {
	return TypeResolution{Handle: h}
}

func valueRes(inner TypeInner) TypeResolution {
	return TypeResolution{Value: inner}
}

// ResolveExpressionType computes the type of an expression in fn. For
// global expressions pass nil as fn; expressions that only make sense
// inside a function body then fail to resolve.
//
// Variable references resolve the way back ends observe them:
// ExprLocalVariable is a pointer into SpaceFunction, and
// ExprGlobalVariable is a pointer into the variable's space except for
// SpaceHandle, which yields the variable's type directly.
func ResolveExpressionType(module *Module, fn *Function, handle ExpressionHandle) (TypeResolution, error) {
	exprs := &module.GlobalExpressions
	if fn != nil {
		exprs = &fn.Expressions
	}
	expr, ok := exprs.TryGet(handle)
	if !ok {
		return TypeResolution{}, fmt.Errorf("expression handle %v out of range (len %d)", handle, exprs.Len())
	}

	switch kind := expr.Kind.(type) {
	case Literal:
		return resolveLiteralType(kind)
	case ExprConstant:
		c, ok := module.Constants.TryGet(kind.Constant)
		if !ok {
			return TypeResolution{}, fmt.Errorf("constant %v out of range", kind.Constant)
		}
		return handleRes(c.Type), nil
	case ExprOverride:
		o, ok := module.Overrides.TryGet(kind.Override)
		if !ok {
			return TypeResolution{}, fmt.Errorf("override %v out of range", kind.Override)
		}
		return handleRes(o.Type), nil
	case ExprZeroValue:
		return handleRes(kind.Type), nil
	case ExprCompose:
		return handleRes(kind.Type), nil
	case ExprAccess:
		return resolveAccessType(module, fn, kind.Base, nil)
	case ExprAccessIndex:
		return resolveAccessType(module, fn, kind.Base, &kind.Index)
	case ExprSplat:
		return resolveSplatType(module, fn, kind)
	case ExprSwizzle:
		return resolveSwizzleType(module, fn, kind)
	case ExprFunctionArgument:
		if fn == nil || int(kind.Index) >= len(fn.Arguments) {
			return TypeResolution{}, fmt.Errorf("function argument index %d out of range", kind.Index)
		}
		return handleRes(fn.Arguments[kind.Index].Type), nil
	case ExprGlobalVariable:
		global, ok := module.GlobalVariables.TryGet(kind.Variable)
		if !ok {
			return TypeResolution{}, fmt.Errorf("global variable %v out of range", kind.Variable)
		}
		if global.Space == SpaceHandle {
			return handleRes(global.Type), nil
		}
		return valueRes(PointerType{Base: global.Type, Space: global.Space}), nil
	case ExprLocalVariable:
		if fn == nil {
			return TypeResolution{}, fmt.Errorf("local variable reference outside a function")
		}
		local, ok := fn.LocalVariables.TryGet(kind.Variable)
		if !ok {
			return TypeResolution{}, fmt.Errorf("local variable %v out of range", kind.Variable)
		}
		return valueRes(PointerType{Base: local.Type, Space: SpaceFunction}), nil
	case ExprLoad:
		return resolveLoadType(module, fn, kind)
	case ExprImageSample:
		return resolveImageSampleType(module, fn, kind.Image, kind.HasGather)
	case ExprImageLoad:
		return resolveImageLoadType(module, fn, kind)
	case ExprImageQuery:
		return resolveImageQueryType(module, fn, kind)
	case ExprUnary:
		return ResolveExpressionType(module, fn, kind.Expr)
	case ExprBinary:
		return resolveBinaryType(module, fn, kind)
	case ExprSelect:
		return ResolveExpressionType(module, fn, kind.Accept)
	case ExprDerivative:
		return ResolveExpressionType(module, fn, kind.Expr)
	case ExprRelational:
		return resolveRelationalType(module, fn, kind)
	case ExprMath:
		return resolveMathType(module, fn, kind)
	case ExprAs:
		return resolveAsType(module, fn, kind)
	case ExprCallResult:
		callee, ok := module.Functions.TryGet(kind.Function)
		if !ok {
			return TypeResolution{}, fmt.Errorf("function %v out of range", kind.Function)
		}
		if callee.Result == nil {
			return TypeResolution{}, fmt.Errorf("function %q has no return type", callee.Name)
		}
		return handleRes(callee.Result.Type), nil
	case ExprAtomicResult:
		return handleRes(kind.Type), nil
	case ExprWorkGroupUniformLoadResult:
		return handleRes(kind.Type), nil
	case ExprArrayLength:
		return valueRes(U32), nil
	case ExprSubgroupBallotResult:
		return valueRes(VectorType{Size: Vec4, Scalar: U32}), nil
	case ExprSubgroupOperationResult:
		return handleRes(kind.Type), nil
	case ExprRayQueryProceedResult:
		return valueRes(Bool), nil
	case ExprRayQueryGetIntersection:
		if !module.SpecialTypes.RayIntersection.IsValid() {
			return TypeResolution{}, fmt.Errorf("module declares no ray intersection type")
		}
		return handleRes(module.SpecialTypes.RayIntersection), nil
	case ExprRayQueryVertexPositions:
		if !module.SpecialTypes.RayVertexReturn.IsValid() {
			return TypeResolution{}, fmt.Errorf("module declares no ray vertex return type")
		}
		return handleRes(module.SpecialTypes.RayVertexReturn), nil
	default:
		return TypeResolution{}, fmt.Errorf("unsupported expression kind: %T", kind)
	}
}

func resolveLiteralType(lit Literal) (TypeResolution, error) {
	switch v := lit.Value.(type) {
	case LiteralF64:
		return valueRes(F64), nil
	case LiteralF32:
		return valueRes(F32), nil
	case LiteralU32:
		return valueRes(U32), nil
	case LiteralI32:
		return valueRes(I32), nil
	case LiteralU64:
		return valueRes(U64), nil
	case LiteralI64:
		return valueRes(I64), nil
	case LiteralBool:
		return valueRes(Bool), nil
	case LiteralAbstractInt:
		return valueRes(ScalarType{Kind: ScalarAbstractInt, Width: 8}), nil
	case LiteralAbstractFloat:
		return valueRes(ScalarType{Kind: ScalarAbstractFloat, Width: 8}), nil
	default:
		return TypeResolution{}, fmt.Errorf("unknown literal type: %T", v)
	}
}

// resolveAccessType types both ExprAccess (index == nil) and
// ExprAccessIndex. Indexing a composite yields the element type;
// indexing through a pointer to a composite yields a pointer to the
// element type in the same address space.
func resolveAccessType(module *Module, fn *Function, base ExpressionHandle, index *uint32) (TypeResolution, error) {
	baseRes, err := ResolveExpressionType(module, fn, base)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("access base: %w", err)
	}

	inner := baseRes.Inner(module)
	switch t := inner.(type) {
	case VectorType:
		return valueRes(t.Scalar), nil
	case MatrixType:
		return valueRes(VectorType{Size: t.Rows, Scalar: t.Scalar}), nil
	case ArrayType:
		return handleRes(t.Base), nil
	case BindingArrayType:
		return handleRes(t.Base), nil
	case StructType:
		if index == nil {
			return TypeResolution{}, fmt.Errorf("struct indexed with a computed index")
		}
		if int(*index) >= len(t.Members) {
			return TypeResolution{}, fmt.Errorf("struct member index %d out of range", *index)
		}
		return handleRes(t.Members[*index].Type), nil
	case ValuePointerType:
		if t.Size == 0 {
			return TypeResolution{}, fmt.Errorf("cannot index a pointer to a scalar")
		}
		return valueRes(ValuePointerType{Scalar: t.Scalar, Space: t.Space}), nil
	case PointerType:
		elem, err := pointerElement(module, t, index)
		if err != nil {
			return TypeResolution{}, err
		}
		return elem, nil
	default:
		return TypeResolution{}, fmt.Errorf("cannot index into %T", t)
	}
}

// pointerElement resolves indexing through a pointer: the result is a
// pointer to the pointee's element, in the pointer's address space.
func pointerElement(module *Module, ptr PointerType, index *uint32) (TypeResolution, error) {
	pointee, ok := module.Types.TryGet(ptr.Base)
	if !ok {
		return TypeResolution{}, fmt.Errorf("pointer base type %v out of range", ptr.Base)
	}
	switch t := pointee.Inner.(type) {
	case VectorType:
		return valueRes(ValuePointerType{Scalar: t.Scalar, Space: ptr.Space}), nil
	case MatrixType:
		return valueRes(ValuePointerType{Size: t.Rows, Scalar: t.Scalar, Space: ptr.Space}), nil
	case ArrayType:
		return valueRes(PointerType{Base: t.Base, Space: ptr.Space}), nil
	case StructType:
		if index == nil {
			return TypeResolution{}, fmt.Errorf("struct indexed with a computed index")
		}
		if int(*index) >= len(t.Members) {
			return TypeResolution{}, fmt.Errorf("struct member index %d out of range", *index)
		}
		return valueRes(PointerType{Base: t.Members[*index].Type, Space: ptr.Space}), nil
	default:
		return TypeResolution{}, fmt.Errorf("cannot index through a pointer to %T", t)
	}
}

func resolveSplatType(module *Module, fn *Function, expr ExprSplat) (TypeResolution, error) {
	valueType, err := ResolveExpressionType(module, fn, expr.Value)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("splat value: %w", err)
	}
	scalar, ok := valueType.Inner(module).(ScalarType)
	if !ok {
		return TypeResolution{}, fmt.Errorf("splat value must be a scalar, got %T", valueType.Inner(module))
	}
	return valueRes(VectorType{Size: expr.Size, Scalar: scalar}), nil
}

func resolveSwizzleType(module *Module, fn *Function, expr ExprSwizzle) (TypeResolution, error) {
	vectorType, err := ResolveExpressionType(module, fn, expr.Vector)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("swizzle vector: %w", err)
	}
	vec, ok := vectorType.Inner(module).(VectorType)
	if !ok {
		return TypeResolution{}, fmt.Errorf("swizzle base must be a vector, got %T", vectorType.Inner(module))
	}
	return valueRes(VectorType{Size: expr.Size, Scalar: vec.Scalar}), nil
}

func resolveLoadType(module *Module, fn *Function, expr ExprLoad) (TypeResolution, error) {
	pointerType, err := ResolveExpressionType(module, fn, expr.Pointer)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("load pointer: %w", err)
	}

	switch t := pointerType.Inner(module).(type) {
	case PointerType:
		// Loading through a pointer to an atomic yields the scalar.
		if pointee, ok := module.Types.TryGet(t.Base); ok {
			if atomic, ok := pointee.Inner.(AtomicType); ok {
				return valueRes(atomic.Scalar), nil
			}
		}
		return handleRes(t.Base), nil
	case ValuePointerType:
		if t.Size == 0 {
			return valueRes(t.Scalar), nil
		}
		return valueRes(VectorType{Size: t.Size, Scalar: t.Scalar}), nil
	default:
		return TypeResolution{}, fmt.Errorf("load requires a pointer, got %T", t)
	}
}

func resolveImageSampleType(module *Module, fn *Function, image ExpressionHandle, gather bool) (TypeResolution, error) {
	imageType, err := ResolveExpressionType(module, fn, image)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("sampled image: %w", err)
	}
	img, ok := imageType.Inner(module).(ImageType)
	if !ok {
		return TypeResolution{}, fmt.Errorf("image sample requires an image, got %T", imageType.Inner(module))
	}

	switch class := img.Class.(type) {
	case ImageClassSampled:
		scalar := ScalarType{Kind: class.Kind, Width: 4}
		return valueRes(VectorType{Size: Vec4, Scalar: scalar}), nil
	case ImageClassDepth:
		// A depth sample is a single f32; a depth gather is still four
		// comparison results.
		if gather {
			return valueRes(VectorType{Size: Vec4, Scalar: F32}), nil
		}
		return valueRes(F32), nil
	default:
		return TypeResolution{}, fmt.Errorf("cannot sample a %T image", class)
	}
}

func resolveImageLoadType(module *Module, fn *Function, expr ExprImageLoad) (TypeResolution, error) {
	imageType, err := ResolveExpressionType(module, fn, expr.Image)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("loaded image: %w", err)
	}
	img, ok := imageType.Inner(module).(ImageType)
	if !ok {
		return TypeResolution{}, fmt.Errorf("image load requires an image, got %T", imageType.Inner(module))
	}

	switch class := img.Class.(type) {
	case ImageClassSampled:
		scalar := ScalarType{Kind: class.Kind, Width: 4}
		return valueRes(VectorType{Size: Vec4, Scalar: scalar}), nil
	case ImageClassDepth:
		return valueRes(F32), nil
	case ImageClassStorage:
		return valueRes(VectorType{Size: Vec4, Scalar: storageFormatScalar(class.Format)}), nil
	default:
		return TypeResolution{}, fmt.Errorf("cannot load from a %T image", class)
	}
}

// storageFormatScalar is the scalar produced by loading from a storage
// image of the given format.
func storageFormatScalar(format StorageFormat) ScalarType {
	switch format {
	case FormatR8Uint, FormatR16Uint, FormatRg8Uint, FormatR32Uint,
		FormatRg16Uint, FormatRgba8Uint, FormatRgb10a2Uint, FormatRg32Uint,
		FormatRgba16Uint, FormatRgba32Uint:
		return U32
	case FormatR8Sint, FormatR16Sint, FormatRg8Sint, FormatR32Sint,
		FormatRg16Sint, FormatRgba8Sint, FormatRg32Sint,
		FormatRgba16Sint, FormatRgba32Sint:
		return I32
	case FormatR64Uint:
		return U64
	default:
		return F32
	}
}

func resolveImageQueryType(module *Module, fn *Function, expr ExprImageQuery) (TypeResolution, error) {
	if _, ok := expr.Query.(ImageQuerySize); ok {
		imageType, err := ResolveExpressionType(module, fn, expr.Image)
		if err != nil {
			return TypeResolution{}, fmt.Errorf("queried image: %w", err)
		}
		img, ok := imageType.Inner(module).(ImageType)
		if !ok {
			return TypeResolution{}, fmt.Errorf("image query requires an image, got %T", imageType.Inner(module))
		}
		switch img.Dim {
		case Dim1D:
			return valueRes(U32), nil
		case Dim3D:
			return valueRes(VectorType{Size: Vec3, Scalar: U32}), nil
		default:
			return valueRes(VectorType{Size: Vec2, Scalar: U32}), nil
		}
	}
	// NumLevels, NumLayers, NumSamples.
	return valueRes(U32), nil
}

func resolveBinaryType(module *Module, fn *Function, expr ExprBinary) (TypeResolution, error) {
	leftType, err := ResolveExpressionType(module, fn, expr.Left)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("binary left: %w", err)
	}

	switch expr.Op {
	case BinaryEqual, BinaryNotEqual, BinaryLess, BinaryLessEqual, BinaryGreater, BinaryGreaterEqual:
		if vec, ok := leftType.Inner(module).(VectorType); ok {
			return valueRes(VectorType{Size: vec.Size, Scalar: Bool}), nil
		}
		return valueRes(Bool), nil

	case BinaryLogicalAnd, BinaryLogicalOr:
		return leftType, nil

	case BinaryMultiply:
		rightType, err := ResolveExpressionType(module, fn, expr.Right)
		if err != nil {
			return TypeResolution{}, fmt.Errorf("binary right: %w", err)
		}
		return resolveMulResultType(module, leftType, rightType), nil

	default:
		// Arithmetic and bitwise operators broadcast a scalar operand
		// to the other side's vector size.
		rightType, err := ResolveExpressionType(module, fn, expr.Right)
		if err != nil {
			return TypeResolution{}, fmt.Errorf("binary right: %w", err)
		}
		if _, ok := leftType.Inner(module).(ScalarType); ok {
			if _, ok := rightType.Inner(module).(VectorType); ok {
				return rightType, nil
			}
		}
		return leftType, nil
	}
}

// resolveMulResultType handles the multiplication shapes: scalar*vec,
// scalar*mat, mat*vec (column count must match, yields rows), vec*mat
// (yields columns), mat*mat.
func resolveMulResultType(module *Module, left, right TypeResolution) TypeResolution {
	leftInner := left.Inner(module)
	rightInner := right.Inner(module)

	_, leftIsScalar := leftInner.(ScalarType)
	_, rightIsScalar := rightInner.(ScalarType)
	_, leftIsVec := leftInner.(VectorType)
	_, rightIsVec := rightInner.(VectorType)
	leftMat, leftIsMat := leftInner.(MatrixType)
	rightMat, rightIsMat := rightInner.(MatrixType)

	switch {
	case leftIsScalar && (rightIsVec || rightIsMat):
		return right
	case (leftIsVec || leftIsMat) && rightIsScalar:
		return left
	case leftIsMat && rightIsVec:
		return valueRes(VectorType{Size: leftMat.Rows, Scalar: leftMat.Scalar})
	case leftIsVec && rightIsMat:
		return valueRes(VectorType{Size: rightMat.Columns, Scalar: rightMat.Scalar})
	case leftIsMat && rightIsMat:
		return valueRes(MatrixType{Columns: rightMat.Columns, Rows: leftMat.Rows, Scalar: leftMat.Scalar})
	default:
		return left
	}
}

func resolveRelationalType(module *Module, fn *Function, expr ExprRelational) (TypeResolution, error) {
	argType, err := ResolveExpressionType(module, fn, expr.Argument)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("relational argument: %w", err)
	}

	if vec, ok := argType.Inner(module).(VectorType); ok {
		switch expr.Fun {
		case RelationalIsNan, RelationalIsInf:
			return valueRes(VectorType{Size: vec.Size, Scalar: Bool}), nil
		}
	}
	// all/any collapse to a single bool; a scalar argument is a bool
	// already.
	return valueRes(Bool), nil
}

func resolveMathType(module *Module, fn *Function, expr ExprMath) (TypeResolution, error) {
	argType, err := ResolveExpressionType(module, fn, expr.Arg)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("math argument: %w", err)
	}

	switch expr.Fun {
	case MathDot:
		if vec, ok := argType.Inner(module).(VectorType); ok {
			return valueRes(vec.Scalar), nil
		}
		return argType, nil

	case MathDot4I8Packed:
		return valueRes(I32), nil
	case MathDot4U8Packed:
		return valueRes(U32), nil

	case MathLength, MathDistance, MathDeterminant:
		if vec, ok := argType.Inner(module).(VectorType); ok {
			return valueRes(vec.Scalar), nil
		}
		if mat, ok := argType.Inner(module).(MatrixType); ok {
			return valueRes(mat.Scalar), nil
		}
		return argType, nil

	case MathOuter:
		colType, err := ResolveExpressionType(module, fn, expr.Arg1)
		if err != nil {
			return TypeResolution{}, fmt.Errorf("outer second argument: %w", err)
		}
		rows, okRows := argType.Inner(module).(VectorType)
		cols, okCols := colType.Inner(module).(VectorType)
		if !okRows || !okCols {
			return TypeResolution{}, fmt.Errorf("outer requires vector arguments")
		}
		return valueRes(MatrixType{Columns: cols.Size, Rows: rows.Size, Scalar: rows.Scalar}), nil

	case MathTranspose:
		if mat, ok := argType.Inner(module).(MatrixType); ok {
			return valueRes(MatrixType{Columns: mat.Rows, Rows: mat.Columns, Scalar: mat.Scalar}), nil
		}
		return argType, nil

	case MathCountTrailingZeros, MathCountLeadingZeros, MathCountOneBits,
		MathFirstTrailingBit, MathFirstLeadingBit:
		return argType, nil

	case MathPack4x8snorm, MathPack4x8unorm, MathPack2x16snorm,
		MathPack2x16unorm, MathPack2x16float, MathPack4xI8, MathPack4xU8,
		MathPack4xI8Clamp, MathPack4xU8Clamp:
		return valueRes(U32), nil

	case MathUnpack4x8snorm, MathUnpack4x8unorm:
		return valueRes(VectorType{Size: Vec4, Scalar: F32}), nil
	case MathUnpack2x16snorm, MathUnpack2x16unorm, MathUnpack2x16float:
		return valueRes(VectorType{Size: Vec2, Scalar: F32}), nil
	case MathUnpack4xI8:
		return valueRes(VectorType{Size: Vec4, Scalar: I32}), nil
	case MathUnpack4xU8:
		return valueRes(VectorType{Size: Vec4, Scalar: U32}), nil

	default:
		// Most math functions preserve the first argument's type.
		return argType, nil
	}
}

func resolveAsType(module *Module, fn *Function, expr ExprAs) (TypeResolution, error) {
	exprType, err := ResolveExpressionType(module, fn, expr.Expr)
	if err != nil {
		return TypeResolution{}, fmt.Errorf("cast operand: %w", err)
	}

	if expr.Convert == 0 {
		// Bitcast: same shape, reinterpreted kind.
		switch t := exprType.Inner(module).(type) {
		case ScalarType:
			return valueRes(ScalarType{Kind: expr.Kind, Width: t.Width}), nil
		case VectorType:
			return valueRes(VectorType{Size: t.Size, Scalar: ScalarType{Kind: expr.Kind, Width: t.Scalar.Width}}), nil
		default:
			return TypeResolution{}, fmt.Errorf("cannot bitcast %T", t)
		}
	}

	target := ScalarType{Kind: expr.Kind, Width: expr.Convert}
	if vec, ok := exprType.Inner(module).(VectorType); ok {
		return valueRes(VectorType{Size: vec.Size, Scalar: target}), nil
	}
	return valueRes(target), nil
}
