package syntax_test

import (
	"bytes"
	"fmt"
	"log"
	"reflect"
	"strings"
	"testing"

	"go.pyrite.dev/syntax"
)

func TestWalk(t *testing.T) {
	const src = `
while x:
  if x:
    pass
  else:
    f([2*x, "abc"])
`
	f, err := syntax.Parse("hello.pyr", src, 0)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := buf.String()
	want := `
File
  While
    Name
    If
      Name
      Pass
      ExprStmt
        Call
          Name
          List
            BinOp
              Constant
              Name
            Constant`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestWalkPrune(t *testing.T) {
	f, err := syntax.Parse("hello.pyr", "def f(a):\n    a + b\nc\n", 0)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	syntax.Walk(f, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Def:
			return false // skip function bodies
		case *syntax.Name:
			names = append(names, n.ID)
		}
		return true
	})
	if got := strings.Join(names, " "); got != "c" {
		t.Errorf("got names %q, want %q", got, "c")
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the names in a Pyrite source file
// containing a nonsense program with varied grammar.
func ExampleWalk() {
	const src = `
class a:
    def b(c, d):
        e.f = -(g)
        h(i.j)

while k < l <= m:
    if n and o or not p:
        q = [r, s ** t]
    elif u is not v:
        break
    else:
        print w // x % y
z = 1
`
	f, err := syntax.Parse("hello.pyr", src, 0)
	if err != nil {
		log.Fatal(err)
	}

	var names []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if name, ok := n.(*syntax.Name); ok {
			names = append(names, name.ID)
		}
		return true
	})
	fmt.Println(strings.Join(names, " "))

	// Output:
	// a b c d e g h i k l m n o p q r s t u v w x y z
}
