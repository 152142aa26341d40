package mint

import (
	"strings"
	"testing"

	"github.com/oarkflow/json"
)

func TestTreeMarshalJSON(t *testing.T) {
	tree, errs := parse(t, "let a = 1;\nif (a) print a + 2; else { f(a); }")
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roots []map[string]any
	if err := json.Unmarshal(data, &roots); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0]["stmt"] != "Let" || roots[0]["name"] != "a" {
		t.Fatalf("unexpected let node: %v", roots[0])
	}
	init := roots[0]["init"].(map[string]any)
	if init["expr"] != "Literal" || init["value"] != float64(1) {
		t.Fatalf("unexpected initializer: %v", init)
	}

	ifNode := roots[1]
	if ifNode["stmt"] != "If" {
		t.Fatalf("unexpected node: %v", ifNode)
	}
	then := ifNode["then"].(map[string]any)
	sum := then["expr"].(map[string]any)
	if sum["expr"] != "Binary" || sum["op"] != "+" || sum["line"] != float64(2) {
		t.Fatalf("unexpected print operand: %v", sum)
	}
	body := ifNode["else"].(map[string]any)["body"].([]any)
	call := body[0].(map[string]any)["expr"].(map[string]any)
	if call["expr"] != "Call" || len(call["args"].([]any)) != 1 {
		t.Fatalf("unexpected call: %v", call)
	}
}

func TestTokenJSON(t *testing.T) {
	tokens := NewLexer(`print "hi";`).ScanTokens()
	data, err := json.Marshal(tokens)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"type":"PRINT"`, `"lexeme":"\"hi\""`, `"literal":"hi"`, `"type":"EOF"`, `"literal":null`} {
		if !strings.Contains(text, want) {
			t.Fatalf("%s missing from %s", want, text)
		}
	}
}

func TestValueJSONNonFinite(t *testing.T) {
	data, err := json.Marshal([]Value{Number(1.5), Number(posInf()), Nil, Bool(true)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `[1.5,"inf",null,true]` {
		t.Fatalf("got %s", data)
	}
}

func posInf() float64 {
	zero := 0.0
	return 1 / zero
}
