package ir

import (
	"fmt"
	"strconv"

	"github.com/gogpu/shaderir/arena"
)

// Handle aliases keep field declarations readable; each is a distinct
// type, so handles for different entity kinds cannot be mixed up.
type (
	TypeHandle           = arena.Handle[Type]
	ConstantHandle       = arena.Handle[Constant]
	OverrideHandle       = arena.Handle[Override]
	GlobalVariableHandle = arena.Handle[GlobalVariable]
	LocalVariableHandle  = arena.Handle[LocalVariable]
	FunctionHandle       = arena.Handle[Function]
	ExpressionHandle     = arena.Handle[Expression]
)

// Type is a data type declared in the module.
type Type struct {
	// Name of the type, if any. Two struct types with different names
	// are distinct even when their members agree.
	Name string
	// Inner structure, depending on the kind of the type.
	Inner TypeInner
}

// Key implements arena.Keyed so types deduplicate structurally in the
// module's type arena. The key includes the name: the inner shape
// alone cannot distinguish two differently named structs, which is
// exactly why raw structural equality is unreliable for Struct (and
// for Pointer versus ValuePointer; see EquivalentTypes).
func (t Type) Key() string {
	if t.Name == "" {
		return typeInnerKey(t.Inner)
	}
	return t.Name + ";" + typeInnerKey(t.Inner)
}

// TypeInner is the structural shape of a type.
//
// Comparing shapes directly is not reliable for PointerType,
// ValuePointerType, or StructType; use EquivalentTypes for a semantic
// comparison.
type TypeInner interface {
	typeInner()
}

// ScalarKind classifies how a scalar value's bits are interpreted.
type ScalarKind uint8

const (
	ScalarSint  ScalarKind = iota // signed integer
	ScalarUint                    // unsigned integer
	ScalarFloat                   // floating point
	ScalarBool                    // boolean

	// Abstract numeric kinds exist only during front-end constant
	// evaluation; validation rejects them in a finished module.
	ScalarAbstractInt
	ScalarAbstractFloat
)

// ScalarType is a number of integral or floating-point kind.
type ScalarType struct {
	Kind  ScalarKind
	Width uint8 // size of the value in bytes
}

func (ScalarType) typeInner() {}

// Common scalars, for convenience.
var (
	F32  = ScalarType{Kind: ScalarFloat, Width: 4}
	F64  = ScalarType{Kind: ScalarFloat, Width: 8}
	I32  = ScalarType{Kind: ScalarSint, Width: 4}
	U32  = ScalarType{Kind: ScalarUint, Width: 4}
	I64  = ScalarType{Kind: ScalarSint, Width: 8}
	U64  = ScalarType{Kind: ScalarUint, Width: 8}
	Bool = ScalarType{Kind: ScalarBool, Width: 1}
)

// VectorSize is the number of components in a vector.
type VectorSize uint8

const (
	Vec2 VectorSize = 2
	Vec3 VectorSize = 3
	Vec4 VectorSize = 4
)

// VectorType is a vector of scalars.
type VectorType struct {
	Size   VectorSize
	Scalar ScalarType
}

func (VectorType) typeInner() {}

// MatrixType is a matrix of floats, addressed column-first.
type MatrixType struct {
	Columns VectorSize
	Rows    VectorSize
	Scalar  ScalarType
}

func (MatrixType) typeInner() {}

// AtomicType is a scalar that supports atomic operations.
type AtomicType struct {
	Scalar ScalarType
}

func (AtomicType) typeInner() {}

// AddressSpace says where a variable's storage lives.
type AddressSpace uint8

const (
	SpaceFunction AddressSpace = iota
	SpacePrivate
	SpaceWorkGroup
	SpaceUniform
	SpaceStorage
	SpacePushConstant
	// SpaceHandle holds opaque objects such as samplers and images.
	// Referencing a global in this space yields the value directly,
	// never a pointer, and such globals cannot be assigned to.
	SpaceHandle
)

// StorageAccess describes the allowed operations on a storage
// resource.
type StorageAccess uint32

const (
	AccessLoad   StorageAccess = 1 << 0
	AccessStore  StorageAccess = 1 << 1
	AccessAtomic StorageAccess = 1 << 2
)

// PointerType is a pointer to another type in the arena.
//
// A pointer whose base is a scalar or vector is equivalent to the
// corresponding ValuePointerType; compare with EquivalentTypes, not
// key equality.
type PointerType struct {
	Base  TypeHandle
	Space AddressSpace
}

func (PointerType) typeInner() {}

// ValuePointerType is a pointer to a scalar or vector, described
// inline rather than through a type handle. Type resolution produces
// these when the pointee type may not exist in the arena, e.g. when
// indexing a vector behind a pointer.
type ValuePointerType struct {
	// Size is zero for a pointer to a scalar.
	Size   VectorSize
	Scalar ScalarType
	Space  AddressSpace
}

func (ValuePointerType) typeInner() {}

// ArraySizeKind discriminates the three ways an array can be sized.
type ArraySizeKind uint8

const (
	// ArraySizeConstant means the length is a fixed count.
	ArraySizeConstant ArraySizeKind = iota
	// ArraySizePending means the length is given by an override and
	// is known only at pipeline creation.
	ArraySizePending
	// ArraySizeDynamic means the length can change at runtime.
	ArraySizeDynamic
)

// ArraySize is the size of an array or binding array.
type ArraySize struct {
	Kind ArraySizeKind
	// Count is the fixed length; meaningful for ArraySizeConstant and
	// required to be non-zero there.
	Count uint32
	// Pending is the override the length depends on; meaningful for
	// ArraySizePending.
	Pending OverrideHandle
}

// ArrayType is a homogeneous list of elements. An array is sized
// unless its size is dynamic; dynamically sized arrays may only appear
// as the type of a global variable or as the final member of a struct.
type ArrayType struct {
	Base   TypeHandle
	Size   ArraySize
	Stride uint32
}

func (ArrayType) typeInner() {}

// StructMember is one member of a user-defined structure.
type StructMember struct {
	Name string
	Type TypeHandle
	// For I/O structs, defines the binding.
	Binding Binding
	// Offset from the beginning of the struct, in bytes.
	Offset uint32
}

// StructType is a user-defined structure. It must have at least one
// member, and only the final member may be a dynamically sized array.
// The struct is fully sized iff all its members are.
type StructType struct {
	Members []StructMember
	// Span is the total size of the struct in bytes.
	Span uint32
}

func (StructType) typeInner() {}

// ImageDimension is the number of dimensions an image has.
type ImageDimension uint8

const (
	Dim1D ImageDimension = iota
	Dim2D
	Dim3D
	DimCube
)

// ImageClass is the sub-class of an image type.
type ImageClass interface {
	imageClass()
}

// ImageClassSampled is a regular sampled image.
type ImageClassSampled struct {
	// Kind of the values sampled from the image.
	Kind ScalarKind
	// Multi marks a multi-sampled image, which holds several samples
	// per texel and cannot have mipmaps.
	Multi bool
}

func (ImageClassSampled) imageClass() {}

// ImageClassDepth is a depth-comparison image.
type ImageClassDepth struct {
	Multi bool
}

func (ImageClassDepth) imageClass() {}

// ImageClassStorage is a storage image.
type ImageClassStorage struct {
	Format StorageFormat
	Access StorageAccess
}

func (ImageClassStorage) imageClass() {}

// ImageType is a possibly multidimensional array of texels.
type ImageType struct {
	Dim     ImageDimension
	Arrayed bool
	Class   ImageClass
}

func (ImageType) typeInner() {}

// SamplerType can be used to sample values from images.
type SamplerType struct {
	Comparison bool
}

func (SamplerType) typeInner() {}

// AccelerationStructureType is an opaque collection of geometry used
// for ray queries.
type AccelerationStructureType struct {
	VertexReturn bool
}

func (AccelerationStructureType) typeInner() {}

// RayQueryType is a locally used handle for ray queries.
type RayQueryType struct {
	VertexReturn bool
}

func (RayQueryType) typeInner() {}

// BindingArrayType is an array where each element draws its value from
// a separate bound resource. Only global variables may have this type.
type BindingArrayType struct {
	Base TypeHandle
	Size ArraySize
}

func (BindingArrayType) typeInner() {}

// StorageFormat is the texel format of a storage image.
type StorageFormat uint8

const (
	// 8-bit formats
	FormatR8Unorm StorageFormat = iota
	FormatR8Snorm
	FormatR8Uint
	FormatR8Sint

	// 16-bit formats
	FormatR16Uint
	FormatR16Sint
	FormatR16Float
	FormatRg8Unorm
	FormatRg8Snorm
	FormatRg8Uint
	FormatRg8Sint

	// 32-bit formats
	FormatR32Uint
	FormatR32Sint
	FormatR32Float
	FormatRg16Uint
	FormatRg16Sint
	FormatRg16Float
	FormatRgba8Unorm
	FormatRgba8Snorm
	FormatRgba8Uint
	FormatRgba8Sint
	FormatBgra8Unorm

	// packed 32-bit formats
	FormatRgb10a2Uint
	FormatRgb10a2Unorm
	FormatRg11b10Ufloat

	// 64-bit formats
	FormatR64Uint
	FormatRg32Uint
	FormatRg32Sint
	FormatRg32Float
	FormatRgba16Uint
	FormatRgba16Sint
	FormatRgba16Float

	// 128-bit formats
	FormatRgba32Uint
	FormatRgba32Sint
	FormatRgba32Float

	// normalized 16-bit per channel formats
	FormatR16Unorm
	FormatR16Snorm
	FormatRg16Unorm
	FormatRg16Snorm
	FormatRgba16Unorm
	FormatRgba16Snorm
)

// typeInnerKey builds the structural deduplication key for a shape.
func typeInnerKey(inner TypeInner) string {
	switch t := inner.(type) {
	case ScalarType:
		return scalarKey(t)
	case VectorType:
		return "vec" + strconv.Itoa(int(t.Size)) + ":" + scalarKey(t.Scalar)
	case MatrixType:
		return "mat" + strconv.Itoa(int(t.Columns)) + "x" + strconv.Itoa(int(t.Rows)) + ":" + scalarKey(t.Scalar)
	case AtomicType:
		return "atomic:" + scalarKey(t.Scalar)
	case PointerType:
		return "ptr:" + t.Base.String() + ":" + strconv.Itoa(int(t.Space))
	case ValuePointerType:
		return "vptr:" + strconv.Itoa(int(t.Size)) + ":" + scalarKey(t.Scalar) + ":" + strconv.Itoa(int(t.Space))
	case ArrayType:
		return "array:" + t.Base.String() + ":" + arraySizeKey(t.Size) + ":" + strconv.Itoa(int(t.Stride))
	case StructType:
		key := "struct:" + strconv.Itoa(int(t.Span))
		for _, m := range t.Members {
			key += fmt.Sprintf(":m(%s,%v,%d)", m.Name, m.Type, m.Offset)
		}
		return key
	case ImageType:
		return fmt.Sprintf("image:%d:%v:%s", t.Dim, t.Arrayed, imageClassKey(t.Class))
	case SamplerType:
		return "sampler:" + strconv.FormatBool(t.Comparison)
	case AccelerationStructureType:
		return "accel:" + strconv.FormatBool(t.VertexReturn)
	case RayQueryType:
		return "rayquery:" + strconv.FormatBool(t.VertexReturn)
	case BindingArrayType:
		return "bindarray:" + t.Base.String() + ":" + arraySizeKey(t.Size)
	default:
		return fmt.Sprintf("unknown:%T", inner)
	}
}

func scalarKey(s ScalarType) string {
	return strconv.Itoa(int(s.Kind)) + "x" + strconv.Itoa(int(s.Width))
}

func arraySizeKey(s ArraySize) string {
	switch s.Kind {
	case ArraySizeConstant:
		return strconv.FormatUint(uint64(s.Count), 10)
	case ArraySizePending:
		return "pending" + s.Pending.String()
	default:
		return "dynamic"
	}
}

func imageClassKey(c ImageClass) string {
	switch cl := c.(type) {
	case ImageClassSampled:
		return fmt.Sprintf("sampled(%d,%v)", cl.Kind, cl.Multi)
	case ImageClassDepth:
		return fmt.Sprintf("depth(%v)", cl.Multi)
	case ImageClassStorage:
		return fmt.Sprintf("storage(%d,%d)", cl.Format, cl.Access)
	default:
		return fmt.Sprintf("unknown(%T)", c)
	}
}
