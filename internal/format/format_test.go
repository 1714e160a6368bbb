package format

import (
	"strings"
	"testing"
)

func TestRaw_Passthrough(t *testing.T) {
	f := Raw()
	if got := f.FormatValue("x", "int", "42"); got != "42" {
		t.Errorf("FormatValue() = %s, expected 42", got)
	}
}

func TestFunc_Adapter(t *testing.T) {
	f := Func(func(name, typ, value string) string {
		return name + ":" + typ + "=" + value
	})
	if got := f.FormatValue("x", "int", "42"); got != "x:int=42" {
		t.Errorf("FormatValue() = %s, expected x:int=42", got)
	}
}

func TestLuaFormatter_Format(t *testing.T) {
	script := `
function format(name, type, value)
	if type == "string" then
		return '"' .. value .. '"'
	end
	return value
end
`
	f, err := NewLuaFormatter(script)
	if err != nil {
		t.Fatalf("NewLuaFormatter failed: %v", err)
	}
	defer f.Close()

	if got := f.FormatValue("s", "string", "hello"); got != `"hello"` {
		t.Errorf("FormatValue() = %s, expected quoted hello", got)
	}
	if got := f.FormatValue("n", "int", "42"); got != "42" {
		t.Errorf("FormatValue() = %s, expected 42", got)
	}
}

func TestLuaFormatter_InvalidScript(t *testing.T) {
	if _, err := NewLuaFormatter("this is not lua ("); err == nil {
		t.Error("expected error for invalid script")
	}
}

func TestLuaFormatter_MissingFunction(t *testing.T) {
	_, err := NewLuaFormatter(`x = 1`)
	if err == nil {
		t.Fatal("expected error when format() is not defined")
	}
	if !strings.Contains(err.Error(), "format()") {
		t.Errorf("error = %v, expected mention of format()", err)
	}
}

func TestLuaFormatter_RuntimeErrorFallsBack(t *testing.T) {
	f, err := NewLuaFormatter(`
function format(name, type, value)
	error("boom")
end
`)
	if err != nil {
		t.Fatalf("NewLuaFormatter failed: %v", err)
	}
	defer f.Close()

	if got := f.FormatValue("x", "int", "42"); got != "42" {
		t.Errorf("FormatValue() = %s, expected raw fallback 42", got)
	}
}

func TestLuaFormatter_NonStringReturnFallsBack(t *testing.T) {
	f, err := NewLuaFormatter(`
function format(name, type, value)
	return 7
end
`)
	if err != nil {
		t.Fatalf("NewLuaFormatter failed: %v", err)
	}
	defer f.Close()

	if got := f.FormatValue("x", "int", "42"); got != "42" {
		t.Errorf("FormatValue() = %s, expected raw fallback 42", got)
	}
}
