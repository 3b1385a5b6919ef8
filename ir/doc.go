// Package ir defines the shader intermediate representation shared by
// all front ends and back ends.
//
// The central structure is the Module. A Module contains functions,
// entry points, constants, overrides and global variables, and the
// types required to define them. Module contents live in arenas and
// refer to each other through handles; in a valid module an arena
// element only holds handles to elements appended earlier in the same
// arena, so every intra-arena handle graph is acyclic by construction.
//
// A function body is represented with two kinds of nodes:
//
//   - An Expression produces a value and has no side effects or
//     control flow. Expressions form a DAG within one arena.
//   - A Statement can have side effects and structured control flow.
//     Statements form a tree whose leaves refer to expressions by
//     handle. A statement produces no value, other than by designating
//     a result expression (ExprCallResult, ExprAtomicResult, ...) as
//     the place where its result becomes available.
//
// # Expression evaluation time
//
// Because an expression may be referenced by any number of statements
// and other expressions, the IR fixes the single point at which each
// expression is evaluated:
//
//   - Literal, ExprConstant, ExprOverride and ExprZeroValue are
//     evaluated before execution begins.
//   - ExprFunctionArgument and ExprLocalVariable are evaluated on
//     entry to their function. Arguments are immutable values; a
//     local-variable expression is a pointer to the variable's
//     storage, which never moves while the function runs.
//   - ExprGlobalVariable is evaluated before execution begins. For the
//     SpaceHandle address space it yields the variable's opaque value
//     directly; for every other space it yields a pointer whose
//     address never changes.
//   - A result expression is evaluated exactly when the one statement
//     that designates it as its result executes.
//   - Every other expression is evaluated when the unique StmtEmit
//     whose range covers it executes.
//
// ExpressionEvalTime reports this classification.
//
// # Expression scope
//
// Each expression also has a scope: the region of the statement tree
// in which referencing it is legal. Constants, overrides, globals,
// arguments and locals are in scope for the whole function. An
// expression evaluated by an StmtEmit is in scope for the rest of that
// emit's range and for the subsequent statements of the same Block,
// including their sub-statements, but not for the Block's parents. A
// designated result expression is in scope for the statements after
// its statement in the same Block.
//
// There is no phi construct. A value computed inside a nested block
// must be stored into a LocalVariable to be used outside it.
//
// AnalyzeFunction checks these rules and returns per-expression
// reference counts for back ends deciding what to materialize; see
// FunctionInfo.
//
// # Constant and override expressions
//
// Module.GlobalExpressions holds initializers. A constant expression
// is restricted to a closed set of variants (see
// IsConstantExpression) and is evaluable at module translation time.
// An override expression is the same set plus ExprOverride references,
// evaluable once pipeline-creation-time values are supplied. This is
// what lets array sizes and workgroup sizes stay pending on an
// override without breaking arena acyclicity.
package ir
