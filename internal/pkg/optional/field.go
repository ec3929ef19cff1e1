package optional

import (
	"bytes"
	"encoding/json"
)

// Field は部分更新用の「指定あり/なし」を区別する値
// JSONにキーが存在しなければ Set=false のまま、null なら Set=true かつ Null=true になる
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of は指定ありのFieldを作成する
func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Present は値が指定され、かつnullでないかを返す
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Get は値と、値が有効かどうかを返す
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Present()
}

// UnmarshalJSON はキーが存在した場合にだけ呼ばれる
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON は未指定またはnullの場合 null を出力する
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
