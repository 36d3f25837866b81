package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// walkTSFamily populates structure by walking a tree-sitter JS/TS/TSX
// AST. Unlike the Python walker, this is definition-only: it captures
// top-level and class-member declarations (functions, classes, methods,
// interfaces, exported arrow-function bindings) but does not attempt a
// full import-classification pass, since TS/JS import resolution is not
// part of the dependency graph's scope.
func (e *Extractor) walkTSFamily(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "import_statement":
		e.extractTSImport(n, source, structure)
	case "function_declaration", "generator_function_declaration":
		e.extractTSFunction(n, source, filePath, structure)
	case "class_declaration":
		e.extractTSClass(n, source, filePath, structure)
	case "method_definition":
		e.extractTSMethod(n, source, filePath, structure)
	case "interface_declaration":
		e.extractTSInterface(n, source, filePath, structure)
	case "lexical_declaration":
		e.extractTSArrowBindings(n, source, filePath, structure)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		e.walkTSFamily(n.Child(i), source, filePath, structure)
	}
}

// extractTSImport handles `import X from "mod"`, `import {A, B as C} from
// "mod"`, and `import * as N from "mod"`. The source string is kept as
// Module; no stdlib/local/third-party classification is attempted for
// this language family.
func (e *Extractor) extractTSImport(n *sitter.Node, source []byte, structure *FileStructure) {
	sourceNode := n.ChildByFieldName("source")
	module := trimQuotes(nodeText(source, sourceNode))

	clause := findChildOfType(n, "import_clause")
	if clause == nil {
		structure.Imports = append(structure.Imports, ImportInfo{Module: module, Kind: ImportThirdParty})
		return
	}

	added := false
	for i := 0; i < int(clause.ChildCount()); i++ {
		child := clause.Child(i)
		switch child.Type() {
		case "identifier":
			structure.Imports = append(structure.Imports, ImportInfo{
				Module: module, Name: "default", Alias: nodeText(source, child), Kind: ImportThirdParty,
			})
			added = true
		case "namespace_import":
			structure.Imports = append(structure.Imports, ImportInfo{
				Module: module, Name: "*", Alias: nodeText(source, child), Kind: ImportThirdParty,
			})
			added = true
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				structure.Imports = append(structure.Imports, ImportInfo{
					Module: module, Name: nodeText(source, nameNode), Alias: nodeText(source, aliasNode), Kind: ImportThirdParty,
				})
				added = true
			}
		}
	}
	if !added {
		structure.Imports = append(structure.Imports, ImportInfo{Module: module, Kind: ImportThirdParty})
	}
}

func (e *Extractor) extractTSFunction(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	nameNode := n.ChildByFieldName("name")
	start, end := nodeLines(n)
	structure.Functions = append(structure.Functions, FunctionInfo{
		Name:      nodeText(source, nameNode),
		Args:      tsParamList(n, source),
		StartLine: start,
		EndLine:   end,
		Source:    nodeText(source, n),
	})
}

func (e *Extractor) extractTSMethod(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	nameNode := n.ChildByFieldName("name")
	start, end := nodeLines(n)
	structure.Functions = append(structure.Functions, FunctionInfo{
		Name:      nodeText(source, nameNode),
		Args:      tsParamList(n, source),
		StartLine: start,
		EndLine:   end,
		Source:    nodeText(source, n),
	})
}

func (e *Extractor) extractTSClass(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	nameNode := n.ChildByFieldName("name")
	start, end := nodeLines(n)

	var bases []string
	if heritage := findChildOfType(n, "class_heritage"); heritage != nil {
		if extends := findChildOfType(heritage, "extends_clause"); extends != nil {
			if value := extends.ChildByFieldName("value"); value != nil {
				bases = append(bases, nodeText(source, value))
			} else if extends.ChildCount() > 1 {
				bases = append(bases, nodeText(source, extends.Child(1)))
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

// extractTSInterface records a TS interface as a ClassInfo: the
// dependency graph treats interfaces and classes alike as CLASS nodes,
// and an `extends` clause is structurally identical to inheritance.
func (e *Extractor) extractTSInterface(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	nameNode := n.ChildByFieldName("name")
	start, end := nodeLines(n)

	var bases []string
	if heritage := findChildOfType(n, "extends_type_clause"); heritage != nil {
		for i := 0; i < int(heritage.ChildCount()); i++ {
			c := heritage.Child(i)
			if c.Type() == "type_identifier" || c.Type() == "generic_type" {
				bases = append(bases, nodeText(source, c))
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

// extractTSArrowBindings captures `const f = (x) => ...` / `export const
// f = async (x) => ...` as a function definition, mirroring how the
// Python walker treats `def`. Every declarator whose value is an arrow
// function or a function expression qualifies, at any nesting depth.
func (e *Extractor) extractTSArrowBindings(n *sitter.Node, source []byte, filePath string, structure *FileStructure) {
	for i := 0; i < int(n.ChildCount()); i++ {
		decl := n.Child(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		value := decl.ChildByFieldName("value")
		if value == nil || (value.Type() != "arrow_function" && value.Type() != "function") {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		start, end := nodeLines(n)
		structure.Functions = append(structure.Functions, FunctionInfo{
			Name:      nodeText(source, nameNode),
			Args:      tsParamList(value, source),
			StartLine: start,
			EndLine:   end,
			Source:    nodeText(source, n),
		})
	}
}

func tsParamList(n *sitter.Node, source []byte) []string {
	params := n.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	var args []string
	for i := 0; i < int(params.ChildCount()); i++ {
		p := params.Child(i)
		switch p.Type() {
		case "(", ")", ",":
			continue
		default:
			args = append(args, nodeText(source, p))
		}
	}
	return args
}

func findChildOfType(n *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == kind {
			return c
		}
	}
	return nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
