package model

import (
	"reflect"
	"testing"
)

func TestIntArray_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  interface{}
		want IntArray
	}{
		{"bytes", []byte("{1,2,3}"), IntArray{1, 2, 3}},
		{"string", "{0,6}", IntArray{0, 6}},
		{"empty", "{}", IntArray{}},
		{"null", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a IntArray
			if err := a.Scan(tt.src); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if !reflect.DeepEqual(a, tt.want) {
				t.Errorf("got %v, want %v", a, tt.want)
			}
		})
	}

	var a IntArray
	if err := a.Scan("{1,x}"); err == nil {
		t.Error("expected error for non-numeric element")
	}
	if err := a.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestIntArray_Value(t *testing.T) {
	v, err := IntArray{1, 2, 5}.Value()
	if err != nil || v != "{1,2,5}" {
		t.Errorf("got %v, %v", v, err)
	}
	v, err = IntArray(nil).Value()
	if err != nil || v != nil {
		t.Errorf("nil array should be NULL, got %v", v)
	}
}
