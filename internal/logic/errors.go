package logic

import "errors"

// 事件归因相关的哨兵错误，handler层据此区分响应码：
// 忽略类错误返回 200 空操作，避免 webhook 方重试风暴；重复客户返回 409。
var (
	ErrEventIgnored      = errors.New("事件来源不是推广渠道，已忽略")
	ErrCodeNotFound      = errors.New("推广码不存在")
	ErrAffiliateInactive = errors.New("推广伙伴未启用")
	ErrProgramInactive   = errors.New("佣金计划未启用")
	ErrDuplicateCustomer = errors.New("该客户已被此伙伴追踪")
	ErrMissingValue      = errors.New("百分比佣金计划缺少交易金额")
	ErrMissingEmail      = errors.New("客户邮箱不能为空")
)
