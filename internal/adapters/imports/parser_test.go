package imports_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/adapters/imports"
	"go.trai.ch/retest/internal/core/ports"
)

func TestParser_Supports(t *testing.T) {
	t.Parallel()
	p := imports.NewParser()

	for _, file := range []string{"a.ts", "a.tsx", "a.mts", "a.cts", "a.js", "a.jsx", "a.mjs", "a.cjs", "A.TS"} {
		assert.True(t, p.Supports(file), file)
	}
	for _, file := range []string{"a.css", "a.json", "Makefile", "a.d"} {
		assert.False(t, p.Supports(file), file)
	}
}

func TestParser_Parse_TypeScript(t *testing.T) {
	t.Parallel()

	src := `
import { add } from "./math";
import type { Shape } from './shapes';
import * as utils from "../utils/index";
import "./side-effect";
import fs = require("./legacy");
export { sub } from "./sub";
export * from "./all";
export const local = 1;

const lazy = () => import("./lazy");
const cfg = require("./config.json");
const external = require("lodash");
`
	found, err := imports.NewParser().Parse(context.Background(), "src/index.ts", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []ports.Import{
		{Specifier: "./math", Kind: ports.ImportStatic},
		{Specifier: "./shapes", Kind: ports.ImportStatic},
		{Specifier: "../utils/index", Kind: ports.ImportStatic},
		{Specifier: "./side-effect", Kind: ports.ImportStatic},
		{Specifier: "./legacy", Kind: ports.ImportStatic},
		{Specifier: "./sub", Kind: ports.ImportStatic},
		{Specifier: "./all", Kind: ports.ImportStatic},
		{Specifier: "./lazy", Kind: ports.ImportDynamic},
		{Specifier: "./config.json", Kind: ports.ImportRequire},
		{Specifier: "lodash", Kind: ports.ImportRequire},
	}, found)
}

func TestParser_Parse_JSXAndTemplates(t *testing.T) {
	t.Parallel()

	src := "import React from 'react';\n" +
		"import { Button } from './Button';\n" +
		"export function App() { return <Button label=\"hi\" />; }\n" +
		"const page = import(`./pages/home`);\n"

	found, err := imports.NewParser().Parse(context.Background(), "src/App.tsx", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []ports.Import{
		{Specifier: "react", Kind: ports.ImportStatic},
		{Specifier: "./Button", Kind: ports.ImportStatic},
		{Specifier: "./pages/home", Kind: ports.ImportDynamic},
	}, found)
}

func TestParser_Parse_NonLiteralSpecifier(t *testing.T) {
	t.Parallel()

	src := "const name = process.env.PLUGIN;\n" +
		"const plugin = require(name);\n" +
		"const page = import(`./pages/${name}`);\n"

	found, err := imports.NewParser().Parse(context.Background(), "src/plugins.js", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []ports.Import{
		{Specifier: "", Kind: ports.ImportRequire},
		{Specifier: "", Kind: ports.ImportDynamic},
	}, found)
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	t.Parallel()

	src := "import { a } from './a';\nfunction broken( {\n"
	found, err := imports.NewParser().Parse(context.Background(), "src/broken.js", []byte(src))
	require.Error(t, err)
	assert.Contains(t, found, ports.Import{Specifier: "./a", Kind: ports.ImportStatic})
}

func TestParser_Parse_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := imports.NewParser().Parse(context.Background(), "styles.css", []byte("a{}"))
	require.Error(t, err)

	_, err = imports.NewParser().Parse(context.Background(), "bad.ts", []byte{0xff, 0xfe})
	require.Error(t, err)
}
