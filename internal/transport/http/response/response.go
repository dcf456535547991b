package response

import (
	"math"

	"wineshop/internal/apperr"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK 成功响应
func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// FromErr 业务错误统一转响应体；非业务错误一律收敛到 500
func FromErr(err error) (int, Resp) {
	if ae, ok := err.(*apperr.Error); ok {
		return ae.HTTPStatus(), New(ae.Code, ae.Error(), struct{}{})
	}
	return 500, Error(CodeServerError, "")
}

// PageResp 列表分页信封
type PageResp struct {
	Content       interface{} `json:"content"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Number        int         `json:"number"`
	Empty         bool        `json:"empty"`
}

// NewPage content 为 nil 时落成空数组，page 从 0 计
func NewPage(content interface{}, total int64, page, size int) PageResp {
	if content == nil {
		content = []struct{}{}
	}
	pages := 0
	if size > 0 {
		pages = int(math.Ceil(float64(total) / float64(size)))
	}
	return PageResp{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
		Number:        page,
		Empty:         total == 0,
	}
}
