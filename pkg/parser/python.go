package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// walkPython populates structure by walking a tree-sitter-python AST.
// It recurses into every node rather than stopping at the top level, so
// imports or definitions written inside a conditional or try/except
// block are still captured - source files sometimes guard an import
// with a try/except ImportError.
func (e *Extractor) walkPython(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "import_statement":
		e.extractPyImportStatement(n, source, structure)
	case "import_from_statement":
		e.extractPyImportFromStatement(n, source, structure)
	case "class_definition":
		e.extractPyClass(n, source, filePath, structure)
	case "function_definition":
		e.extractPyFunction(n, source, filePath, structure)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		e.walkPython(n.Child(i), source, filePath, structure)
	}
}

// extractPyImportStatement handles `import a.b.c`, `import a as b`, and
// comma-separated combinations of both.
func (e *Extractor) extractPyImportStatement(n *sitter.Node, source []byte, structure *FileStructure) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "dotted_name":
			module := nodeText(source, child)
			structure.Imports = append(structure.Imports, ImportInfo{
				Module: module,
				Kind:   e.ClassifyImport(module),
			})
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			module := nodeText(source, nameNode)
			structure.Imports = append(structure.Imports, ImportInfo{
				Module: module,
				Alias:  nodeText(source, aliasNode),
				Kind:   e.ClassifyImport(module),
			})
		}
	}
}

// extractPyImportFromStatement handles `from M import N [as A], ...`,
// `from M import *`, and relative forms (`from . import X`, `from ..pkg
// import Y`). The module_name field may be a dotted_name or a
// relative_import node; its raw text (including any leading dots) is
// kept verbatim in ImportInfo.Module.
func (e *Extractor) extractPyImportFromStatement(n *sitter.Node, source []byte, structure *FileStructure) {
	moduleNode := n.ChildByFieldName("module_name")
	module := nodeText(source, moduleNode)
	kind := e.ClassifyImport(module)

	// Walk children directly rather than relying on a field-name query API,
	// since import names aren't exposed as a repeatable "name" field on
	// import_from_statement in the bindings this targets. Skips the
	// module_name subtree and punctuation tokens.
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == moduleNode {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			structure.Imports = append(structure.Imports, ImportInfo{
				Module: module,
				Name:   nodeText(source, child),
				Kind:   kind,
			})
		case "aliased_import":
			nameN := child.ChildByFieldName("name")
			aliasN := child.ChildByFieldName("alias")
			structure.Imports = append(structure.Imports, ImportInfo{
				Module: module,
				Name:   nodeText(source, nameN),
				Alias:  nodeText(source, aliasN),
				Kind:   kind,
			})
		case "wildcard_import":
			structure.Imports = append(structure.Imports, ImportInfo{
				Module: module,
				Name:   "*",
				Kind:   kind,
			})
		}
	}
}

func (e *Extractor) extractPyClass(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	nameNode := n.ChildByFieldName("name")
	start, end := nodeLines(n)

	var bases []string
	if superclasses := n.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < int(superclasses.ChildCount()); i++ {
			arg := superclasses.Child(i)
			switch arg.Type() {
			case "(", ")", ",":
				continue
			default:
				bases = append(bases, nodeText(source, arg))
			}
		}
	}

	structure.Classes = append(structure.Classes, ClassInfo{
		Name:      nodeText(source, nameNode),
		Bases:     bases,
		StartLine: start,
		EndLine:   end,
		Source:    nodeText(source, n),
	})
}

func (e *Extractor) extractPyFunction(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	nameNode := n.ChildByFieldName("name")
	start, end := nodeLines(n)

	var args []string
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			p := params.Child(i)
			switch p.Type() {
			case "(", ")", ",":
				continue
			default:
				args = append(args, nodeText(source, p))
			}
		}
	}

	structure.Functions = append(structure.Functions, FunctionInfo{
		Name:      nodeText(source, nameNode),
		Args:      args,
		StartLine: start,
		EndLine:   end,
		Source:    nodeText(source, n),
	})
}
