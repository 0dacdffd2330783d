package dto

import "encoding/json"

// Optional 区分 JSON 字段的三种状态：
// 未提供（Set=false，不修改）、显式 null（Set=true Valid=false，清空）、
// 有值（Set=true Valid=true，设置）。
// 字段缺失时 UnmarshalJSON 不会被调用，Set 保持 false。
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
