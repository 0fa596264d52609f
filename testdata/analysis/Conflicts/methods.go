package testdata

type ValueTag int

func (v *Value) Clone() Value { return *v }

func (v *Value) SetSize(n int) {}

func NewValueText() {}
