package fixedwidth

import (
	"reflect"
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestParseTag(t *testing.T) {
	for _, tt := range []struct {
		name string
		tag  string
		spec FieldSpec
		skip bool
		ok   bool
	}{
		{"Valid Tag", "0..10", NewField(0, 10), false, true},
		{"Valid Tag Single position", "5..6", NewField(5, 6), false, true},
		{"Valid Tag w/ Justify", "0..10,justify=right", NewField(0, 10).WithJustify(Right), false, true},
		{"Valid Tag w/ Padding Character", "0..10,pad=0", NewField(0, 10).PadWith('0'), false, true},
		{"Valid Tag w/ Name", "0..10,name=first_name", NewField(0, 10).WithName("first_name"), false, true},
		{"Valid Tag w/ All Options", "2..4,pad=_,justify=left,name=x", NewField(2, 4).PadWith('_').WithName("x"), false, true},
		{"Skip Dash", "-", FieldSpec{}, true, true},
		{"Skip Word", "skip", FieldSpec{}, true, true},
		{"Tag Empty", "", FieldSpec{}, false, false},
		{"Tag Too short", "0", FieldSpec{}, false, false},
		{"Old Comma Form", "0,10", FieldSpec{}, false, false},
		{"StartPos Not Integer", "hello..3", FieldSpec{}, false, false},
		{"EndPos Not Integer", "3..hello", FieldSpec{}, false, false},
		{"Tag Contains a Space", "4.. 11", FieldSpec{}, false, false},
		{"Tag Interval Invalid", "14..5", FieldSpec{}, false, false},
		{"Tag Both Positions Zero", "0..0", FieldSpec{}, false, false},
		{"Negative Start", "-1..3", FieldSpec{}, false, false},
		{"Multi-byte Padding Character", "0..2,pad=00", FieldSpec{}, false, false},
		{"Empty Padding Character", "0..2,pad=", FieldSpec{}, false, false},
		{"Unknown Justify", "0..2,justify=center", FieldSpec{}, false, false},
		{"Unknown Option", "0..2,align=right", FieldSpec{}, false, false},
		{"Option Without Value", "0..2,right", FieldSpec{}, false, false},
		{"Empty Name", "0..2,name=", FieldSpec{}, false, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			spec, skip, err := ParseTag(tt.tag)
			if tt.ok != (err == nil) {
				t.Errorf("ParseTag() ok want %v, have %v (%v)", tt.ok, err == nil, err)
			}
			if tt.ok {
				if tt.skip != skip {
					t.Errorf("ParseTag() skip want %v, have %v", tt.skip, skip)
				}
				if !reflect.DeepEqual(tt.spec, spec) {
					t.Errorf("ParseTag() spec want %+v, have %+v", tt.spec, spec)
				}
			}
		})
	}
}

func TestFieldsOf(t *testing.T) {
	type inner struct {
		A string `fixed:"4..6"`
	}
	type record struct {
		Name   string `fixed:"0..4,name=n"`
		Inner  inner
		Amount int    `fixed:"6..9,pad=0,justify=right"`
		Note   string `fixed:"-"`
		hidden int
	}

	t.Run("struct tags", func(t *testing.T) {
		fields, err := FieldsOf(record{})
		td.CmpNoError(t, err)
		td.Cmp(t, fields, Fields(
			NewField(0, 4).WithName("n"),
			Fields(NewField(4, 6).WithName("A")),
			NewField(6, 9).WithName("Amount").PadWith('0').WithJustify(Right),
		))
		td.Cmp(t, fields.Width(), 9)
	})

	t.Run("pointer", func(t *testing.T) {
		fields, err := FieldsOf(&record{})
		td.CmpNoError(t, err)
		td.CmpLen(t, fields, 3)
	})

	t.Run("fielder", func(t *testing.T) {
		fields, err := FieldsOf(point{})
		td.CmpNoError(t, err)
		td.Cmp(t, fields, point{}.FixedWidthFields())
	})

	t.Run("cached", func(t *testing.T) {
		a, _ := FieldsOf(record{})
		b, _ := FieldsOf(record{})
		td.Cmp(t, a, b)
		_, ok := fieldCache.Load(reflect.TypeOf(record{}))
		td.CmpTrue(t, ok)
	})

	t.Run("missing range", func(t *testing.T) {
		_, err := FieldsOf(struct{ A int }{})
		td.CmpError(t, err)
	})

	t.Run("not a struct", func(t *testing.T) {
		_, err := FieldsOf(42)
		td.Cmp(t, KindOf(err), KindUnsupported)
	})

	t.Run("nil", func(t *testing.T) {
		_, err := FieldsOf(nil)
		td.CmpError(t, err)
	})
}

func TestIsLeafType(t *testing.T) {
	for _, tt := range []struct {
		v    interface{}
		leaf bool
	}{
		{"", true},
		{0, true},
		{uint8(0), true},
		{1.5, true},
		{false, true},
		{[]byte(nil), true},
		{Char('a'), true},
		{Float(0), true},
		{Foo, true},
		{EncodableString{}, true},
		{rawField(nil), true},
		{pair{}, false},
		{[]string(nil), false},
		{[2]int{}, false},
		{map[string]string(nil), false},
	} {
		typ := reflect.TypeOf(tt.v)
		if got := isLeafType(typ); got != tt.leaf {
			t.Errorf("isLeafType(%s) want %v, have %v", typ, tt.leaf, got)
		}
	}
}
