package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(localRoots ...string) *Extractor {
	return NewExtractor(nil, localRoots)
}

func TestExtractStructure_PythonImports_ClassifiesByPrefix(t *testing.T) {
	src := []byte(`import os
import backend.app.models
from . import sibling
from ..pkg import helper
from requests import get as http_get
`)
	e := newTestExtractor("backend")
	fs, warnings := e.ExtractStructure(src, LanguagePython, "mod.py")
	require.Empty(t, warnings)

	require.Len(t, fs.Imports, 5)
	assert.Equal(t, ImportInfo{Module: "os", Kind: ImportStdlib}, fs.Imports[0])
	assert.Equal(t, "backend.app.models", fs.Imports[1].Module)
	assert.Equal(t, ImportLocalAbsolute, fs.Imports[1].Kind)
	assert.Equal(t, ImportLocalRelative, fs.Imports[2].Kind)
	assert.Equal(t, "sibling", fs.Imports[2].Name)
	assert.Equal(t, ImportLocalRelative, fs.Imports[3].Kind)
	assert.Equal(t, "..pkg", fs.Imports[3].Module)
	assert.Equal(t, "requests", fs.Imports[4].Module)
	assert.Equal(t, "get", fs.Imports[4].Name)
	assert.Equal(t, "http_get", fs.Imports[4].Alias)
	assert.Equal(t, ImportStdlib, fs.Imports[4].Kind)
}

func TestExtractStructure_PythonClassAndMethods_FlatFunctionList(t *testing.T) {
	src := []byte(`class Animal:
    pass

class Dog(Animal, Named):
    def __init__(self, name):
        self.name = name

    def bark(self):
        return "woof"

def standalone(x, y=1):
    return x + y
`)
	e := newTestExtractor()
	fs, warnings := e.ExtractStructure(src, LanguagePython, "animals.py")
	require.Empty(t, warnings)

	require.Len(t, fs.Classes, 2)
	assert.Equal(t, "Animal", fs.Classes[0].Name)
	assert.Empty(t, fs.Classes[0].Bases)
	assert.Equal(t, "Dog", fs.Classes[1].Name)
	assert.Equal(t, []string{"Animal", "Named"}, fs.Classes[1].Bases)

	// Methods appear in the flat function list alongside standalone functions.
	names := make([]string, 0, len(fs.Functions))
	for _, fn := range fs.Functions {
		names = append(names, fn.Name)
	}
	assert.ElementsMatch(t, []string{"__init__", "bark", "standalone"}, names)
}

func TestExtractStructure_PythonFunctionArgs_KeepsRawText(t *testing.T) {
	src := []byte(`def configure(host: str, port: int = 8080, *args, **kwargs):
    pass
`)
	e := newTestExtractor()
	fs, _ := e.ExtractStructure(src, LanguagePython, "cfg.py")
	require.Len(t, fs.Functions, 1)
	assert.Equal(t, []string{"host: str", "port: int = 8080", "*args", "**kwargs"}, fs.Functions[0].Args)
}

func TestExtractStructure_PythonSyntaxError_ReturnsWarningNotError(t *testing.T) {
	src := []byte(`def broken(:
`)
	e := newTestExtractor()
	fs, warnings := e.ExtractStructure(src, LanguagePython, "broken.py")
	assert.NotEmpty(t, warnings)
	_ = fs // best-effort extraction may still populate partial results
}

func TestExtractStructure_UnsupportedLanguage_ReturnsEmpty(t *testing.T) {
	e := newTestExtractor()
	fs, warnings := e.ExtractStructure([]byte("<?php ?>"), LanguageUnknown, "x.php")
	assert.Empty(t, warnings)
	assert.Empty(t, fs.Imports)
	assert.Empty(t, fs.Classes)
	assert.Empty(t, fs.Functions)
}

func TestExtractStructure_TypeScriptClassAndMethods(t *testing.T) {
	src := []byte(`import { Component } from "react";

export class Button extends Component {
  render() {
    return null;
  }
}

export function helper(x: number): number {
  return x * 2;
}

export const add = (a: number, b: number) => a + b;
`)
	e := newTestExtractor()
	fs, _ := e.ExtractStructure(src, LanguageTypeScript, "button.tsx")

	require.Len(t, fs.Classes, 1)
	assert.Equal(t, "Button", fs.Classes[0].Name)
	assert.Equal(t, []string{"Component"}, fs.Classes[0].Bases)

	names := make([]string, 0, len(fs.Functions))
	for _, fn := range fs.Functions {
		names = append(names, fn.Name)
	}
	assert.Contains(t, names, "render")
	assert.Contains(t, names, "helper")
	assert.Contains(t, names, "add")

	require.Len(t, fs.Imports, 1)
	assert.Equal(t, "react", fs.Imports[0].Module)
	assert.Equal(t, "Component", fs.Imports[0].Name)
}

func TestLanguageFromExtension(t *testing.T) {
	cases := map[string]Language{
		".py":  LanguagePython,
		".ts":  LanguageTypeScript,
		".tsx": LanguageTSX,
		".js":  LanguageJavaScript,
		".jsx": LanguageJavaScript,
		".mjs": LanguageJavaScript,
		".rb":  LanguageUnknown,
	}
	for ext, want := range cases {
		assert.Equal(t, want, LanguageFromExtension(ext), ext)
	}
}
