package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrLockNotAcquired 分布式锁未获取：同一周的排班生成正在进行中
var ErrLockNotAcquired = errors.New("锁已被占用")
