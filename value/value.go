// Package value defines the typed values produced by matching a Cucumber
// Expression against step text.
package value

import (
	"fmt"
	"math/big"
)

// Kind discriminates the payload held by a StepValue.
type Kind int

const (
	KindInt Kind = iota
	KindLong
	KindByte
	KindShort
	KindBigInteger
	KindFloat
	KindDouble
	KindBigDecimal
	KindString
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindBigInteger:
		return "biginteger"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBigDecimal:
		return "bigdecimal"
	case KindString:
		return "string"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// StepValue is a tagged union over the built-in parameter types plus an
// escape hatch for custom parameter-type transformers, which may return
// any user-defined type in CustomVal.
type StepValue struct {
	Kind       Kind
	IntVal     int64
	LongVal    int64
	ByteVal    byte
	ShortVal   int16
	BigIntVal  *big.Int
	FloatVal   float32
	DoubleVal  float64
	BigDecVal  *big.Float
	StringVal  string
	CustomVal  any
	CustomName string
}

func Int(v int64) StepValue        { return StepValue{Kind: KindInt, IntVal: v} }
func Long(v int64) StepValue       { return StepValue{Kind: KindLong, LongVal: v} }
func Byte(v byte) StepValue        { return StepValue{Kind: KindByte, ByteVal: v} }
func Short(v int16) StepValue      { return StepValue{Kind: KindShort, ShortVal: v} }
func BigInteger(v *big.Int) StepValue { return StepValue{Kind: KindBigInteger, BigIntVal: v} }
func Float(v float32) StepValue    { return StepValue{Kind: KindFloat, FloatVal: v} }
func Double(v float64) StepValue   { return StepValue{Kind: KindDouble, DoubleVal: v} }
func BigDecimal(v *big.Float) StepValue { return StepValue{Kind: KindBigDecimal, BigDecVal: v} }
func String(v string) StepValue    { return StepValue{Kind: KindString, StringVal: v} }
func Custom(name string, v any) StepValue {
	return StepValue{Kind: KindCustom, CustomName: name, CustomVal: v}
}

// AsString renders the value for diagnostics and default Ctx.Args indexing.
func (v StepValue) AsString() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.IntVal)
	case KindLong:
		return fmt.Sprintf("%d", v.LongVal)
	case KindByte:
		return fmt.Sprintf("%d", v.ByteVal)
	case KindShort:
		return fmt.Sprintf("%d", v.ShortVal)
	case KindBigInteger:
		if v.BigIntVal != nil {
			return v.BigIntVal.String()
		}
		return "0"
	case KindFloat:
		return fmt.Sprintf("%g", v.FloatVal)
	case KindDouble:
		return fmt.Sprintf("%g", v.DoubleVal)
	case KindBigDecimal:
		if v.BigDecVal != nil {
			return v.BigDecVal.String()
		}
		return "0"
	case KindString:
		return v.StringVal
	case KindCustom:
		return fmt.Sprintf("%v", v.CustomVal)
	default:
		return ""
	}
}

// Native returns the value boxed as its natural Go type, for callers that
// want to type-assert or use reflection instead of switching on Kind.
func (v StepValue) Native() any {
	switch v.Kind {
	case KindInt:
		return v.IntVal
	case KindLong:
		return v.LongVal
	case KindByte:
		return v.ByteVal
	case KindShort:
		return v.ShortVal
	case KindBigInteger:
		return v.BigIntVal
	case KindFloat:
		return v.FloatVal
	case KindDouble:
		return v.DoubleVal
	case KindBigDecimal:
		return v.BigDecVal
	case KindString:
		return v.StringVal
	case KindCustom:
		return v.CustomVal
	default:
		return nil
	}
}

// Arg is a single matched step argument: its typed value and the raw
// captured text it was derived from.
type Arg struct {
	Value StepValue
	Raw   string
}

// DocStringVal is the typed value carried by a step's DocString argument,
// appended as the trailing StepArg of a matched step.
type DocStringVal struct {
	ContentType string
	Content     string
}

// DataTableVal is the typed value carried by a step's DataTable argument.
type DataTableVal struct {
	Rows [][]string
}
