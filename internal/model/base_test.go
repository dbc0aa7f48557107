package model

import (
	"reflect"
	"testing"
)

func TestStringArray_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want StringArray
	}{
		{"空数组", `{}`, StringArray{}},
		{"无引号元素", `{Python,Go}`, StringArray{"Python", "Go"}},
		{"带引号元素", `{"Python","Systems"}`, StringArray{"Python", "Systems"}},
		{"元素含逗号", `{"Doe, Jane","张三"}`, StringArray{"Doe, Jane", "张三"}},
		{"元素含转义引号", `{"say \"hi\"",plain}`, StringArray{`say "hi"`, "plain"}},
		{"元素含反斜杠", `{"a\\b"}`, StringArray{`a\b`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringArray
			if err := got.Scan(tt.src); err != nil {
				t.Fatalf("Scan(%q) 应成功: %v", tt.src, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scan(%q) = %v，期望 %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestStringArray_Scan_Nil(t *testing.T) {
	var got StringArray
	if err := got.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) 应成功: %v", err)
	}
	if got != nil {
		t.Errorf("Scan(nil) 应得到 nil，实际 %v", got)
	}
}

func TestStringArray_Scan_Malformed(t *testing.T) {
	for _, src := range []string{`Python,Go`, `{"未闭合}`, `{"截断\`} {
		var got StringArray
		if err := got.Scan(src); err == nil {
			t.Errorf("Scan(%q) 应报错", src)
		}
	}
}

func TestStringArray_RoundTrip(t *testing.T) {
	// 含逗号、引号、反斜杠的元素经 Value→Scan 后应原样还原
	in := StringArray{"Doe, Jane", `say "hi"`, `a\b`, "张三"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value 应成功: %v", err)
	}
	var out StringArray
	if err := out.Scan(v.(string)); err != nil {
		t.Fatalf("Scan 应成功: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("往返后 %v，期望 %v", out, in)
	}
}

func TestStringArray_Contains(t *testing.T) {
	a := StringArray{"Python", "Systems"}
	if !a.Contains("Python") || a.Contains("Java") {
		t.Error("Contains 判断异常")
	}
}
