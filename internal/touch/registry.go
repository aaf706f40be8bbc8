package touch

// Registry 按插入顺序保存当前处于按下状态的触点，每个标识符至多一条记录。
// Registry 由 Dispatcher 独占，非并发安全。
type Registry struct {
	touches []Touch
}

// NewRegistry 创建一个空的 Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Find 线性查找标识符，返回其位置；未找到时 ok 为 false。
func (r *Registry) Find(id int) (index int, ok bool) {
	for i, t := range r.touches {
		if t.Identifier == id {
			return i, true
		}
	}
	return -1, false
}

// Insert 追加一条记录。调用方负责保证标识符不重复。
func (r *Registry) Insert(t Touch) {
	r.touches = append(r.touches, t)
}

// Replace 原位覆盖 index 处的记录，越界时什么也不做。
func (r *Registry) Replace(index int, t Touch) {
	if index < 0 || index >= len(r.touches) {
		return
	}
	r.touches[index] = t
}

// Remove 删除 index 处的记录，后续记录前移；越界时什么也不做。
func (r *Registry) Remove(index int) {
	if index < 0 || index >= len(r.touches) {
		return
	}
	r.touches = append(r.touches[:index], r.touches[index+1:]...)
}

// At 返回 index 处的记录
func (r *Registry) At(index int) Touch {
	return r.touches[index]
}

func (r *Registry) Len() int { return len(r.touches) }

// Touches 返回当前记录的副本
func (r *Registry) Touches() []Touch {
	out := make([]Touch, len(r.touches))
	copy(out, r.touches)
	return out
}

// Reset 清空全部记录
func (r *Registry) Reset() {
	r.touches = nil
}
