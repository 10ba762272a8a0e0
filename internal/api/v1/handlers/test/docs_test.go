package test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routerAnnotation = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)

// Every exported handler documents the route it serves, and the documented
// routes are exactly the registered ones.
func TestSessionHandler_RouteDocs(t *testing.T) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "../session.go", nil, parser.ParseComments)
	require.NoError(t, err)

	var documented []string
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || !fn.Name.IsExported() {
			continue
		}
		require.NotNil(t, fn.Doc, "%s has no doc comment", fn.Name.Name)
		doc := fn.Doc.Text()
		assert.True(t, strings.HasPrefix(doc, fn.Name.Name+" "), "%s doc should start with its name", fn.Name.Name)
		assert.Contains(t, doc, "@Summary", fn.Name.Name)

		m := routerAnnotation.FindStringSubmatch(doc)
		require.NotNil(t, m, "%s has no @Router annotation", fn.Name.Name)
		path := regexp.MustCompile(`\{(\w+)\}`).ReplaceAllString(m[1], ":$1")
		documented = append(documented, strings.ToUpper(m[2])+" "+path)
	}

	router, _ := setupTestRouter(t, 0)
	var registered []string
	for _, r := range router.Routes() {
		registered = append(registered, r.Method+" "+r.Path)
	}

	assert.ElementsMatch(t, registered, documented)
}
