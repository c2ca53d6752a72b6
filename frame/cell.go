package frame

import (
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/BrobridgeOrg/go-dataload/record"
)

// cellValue converts the i-th element of arr to a record value.
func cellValue(arr arrow.Array, i int) record.Value {
	// null type arrays carry no validity bitmap
	if arr.DataType().ID() == arrow.NULL || arr.IsNull(i) {
		return record.Null()
	}

	switch a := arr.(type) {
	case *array.Boolean:
		return record.Bool(a.Value(i))
	case *array.Int8:
		return record.Int(int64(a.Value(i)))
	case *array.Int16:
		return record.Int(int64(a.Value(i)))
	case *array.Int32:
		return record.Int(int64(a.Value(i)))
	case *array.Int64:
		return record.Int(a.Value(i))
	case *array.Uint8:
		return record.Int(int64(a.Value(i)))
	case *array.Uint16:
		return record.Int(int64(a.Value(i)))
	case *array.Uint32:
		return record.Int(int64(a.Value(i)))
	case *array.Uint64:
		v := a.Value(i)
		if v > math.MaxInt64 {
			return record.Float(float64(v))
		}
		return record.Int(int64(v))
	case *array.Float32:
		return record.Float(float64(a.Value(i)))
	case *array.Float64:
		return record.Float(a.Value(i))
	case *array.String:
		return record.String(a.Value(i))
	case *array.LargeString:
		return record.String(a.Value(i))
	case *array.Binary:
		return record.String(string(a.Value(i)))
	case *array.Date32:
		return record.String(a.Value(i).ToTime().Format(time.DateOnly))
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return record.String(a.Value(i).ToTime(unit).Format(time.RFC3339Nano))
	default:
		return record.String(arr.ValueStr(i))
	}
}
