package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：条件更新未命中任何行，
// 说明目标记录已被并发操作抢先修改（如顶尖名额被占用）
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
