package dto

import "github.com/CcydtN/Touchpad-Emulator/internal/touch"

// TouchBatchRequest 表示页面上报的触点批次 {"touches": [...]}
type TouchBatchRequest struct {
	Touches []touch.Touch `json:"touches" binding:"required"`
}

// TouchAck 是上报成功的响应 (页面并不读取它)
type TouchAck struct {
	Event  string `json:"event"`
	Active int    `json:"active"`
}

// ContactsResponse 列出服务端当前认为按下的触点
type ContactsResponse struct {
	Touches []touch.Touch `json:"touches"`
}

// DescriptorResponse 返回 HID 描述符的十六进制表示
type DescriptorResponse struct {
	ReportDescriptor string `json:"report_descriptor"`
	ClassDescriptor  string `json:"class_descriptor"`
	ReportSize       int    `json:"report_size"`
}

