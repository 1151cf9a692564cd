package sift

// Bootstrap registers the scalar types, container protocol types, and
// named constants every analysis run needs before a single AST node is
// executed: int/float/string/bool/none scalars, a "number" umbrella type
// promoted on mixed arithmetic (spec.md 4.7), list/map container types,
// and the True/False/None singleton constants. Grounded on
// pkg/graft/operator_registry.go's NewOperatorRegistry, which likewise
// seeds a fresh registry from a fixed table before any user operators
// are registered.
func Bootstrap(heap *Heap) *Knowledge {
	k := NewKnowledge(heap)

	numberAddr := k.RegisterType("number")
	intAddr := k.RegisterType("int", numberAddr)
	floatAddr := k.RegisterType("float", numberAddr)
	stringAddr := k.RegisterType("string")
	boolAddr := k.RegisterType("bool")
	noneAddr := k.RegisterType("none")
	listAddr := k.RegisterType("list")
	mapAddr := k.RegisterType("map")
	k.RegisterType("function")

	k.MarkIterable(listAddr)
	k.MarkIterable(mapAddr)
	k.MarkIterable(stringAddr)
	k.MarkIndexable(listAddr)
	k.MarkIndexable(mapAddr)
	k.MarkIndexable(stringAddr)

	for _, op := range []string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">="} {
		k.SupportsOperator(numberAddr, op)
	}
	for _, op := range []string{"+", "==", "!=", "<", ">", "<=", ">="} {
		k.SupportsOperator(stringAddr, op)
	}
	for _, op := range []string{"+"} {
		k.SupportsOperator(listAddr, op)
	}
	for _, op := range []string{"==", "!="} {
		k.SupportsOperator(boolAddr, op)
		k.SupportsOperator(noneAddr, op)
		k.SupportsOperator(mapAddr, op)
	}

	_ = intAddr
	_ = floatAddr

	trueObj := NewObject()
	trueObj.Extensions = []Address{boolAddr}
	k.DefineConstant("True", heap.Alloc(trueObj))

	falseObj := NewObject()
	falseObj.Extensions = []Address{boolAddr}
	k.DefineConstant("False", heap.Alloc(falseObj))

	noneObj := NewObject()
	noneObj.Extensions = []Address{noneAddr}
	k.DefineConstant("None", heap.Alloc(noneObj))

	return k
}
