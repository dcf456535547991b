package apperr

import "fmt"

// Error 业务错误：应用错误码 + 消息 key（与 HTTP 状态码无关）
// 所有业务规则违例统一走这一个类型，由 handler 层集中映射到响应信封
type Error struct {
	Code int
	Key  string
	args []any
}

func New(code int, key string) *Error { return &Error{Code: code, Key: key} }

// WithArgs 返回带格式化参数的副本（原始定义保持不变，可安全复用）
func (e *Error) WithArgs(args ...any) *Error {
	return &Error{Code: e.Code, Key: e.Key, args: args}
}

func (e *Error) Error() string {
	msg, ok := messages[e.Key]
	if !ok {
		return e.Key
	}
	if len(e.args) > 0 {
		return fmt.Sprintf(msg, e.args...)
	}
	return msg
}

// HTTPStatus 业务错误映射 HTTP 状态：鉴权类 401/403，其余一律 400
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case Unauthorized.Code, LoginFailed.Code, InvalidToken.Code:
		return 401
	case AccessDenied.Code:
		return 403
	case Uncategorized.Code, CanNotCreateToken.Code, ExcelImportFail.Code,
		ExcelExportFail.Code, MailSendFail.Code:
		return 500
	default:
		return 400
	}
}

var (
	Uncategorized = New(999, "error.uncategorized")

	// 用户
	UserExisted           = New(40100, "error.user.existed")
	UserNotExist          = New(40104, "error.user.not.exist")
	UserNotFoundFromToken = New(40105, "error.user.not.found.from.token")
	InvalidVerifyToken    = New(40106, "error.verification.token.invalid")

	// 鉴权
	LoginFailed       = New(401, "error.login.failed")
	Unauthorized      = New(401, "error.unauthorized")
	AccessDenied      = New(403, "error.access.denied")
	InvalidToken      = New(401, "error.token.invalid")
	CanNotCreateToken = New(500, "error.can.not.create.token")

	// 购物车 / 订单
	CartNotFound            = New(404, "error.cart.not.found")
	CartEmpty               = New(404, "error.cart.empty")
	ProductNotInCart        = New(404, "error.product.not.in.cart")
	OrderNotFound           = New(404, "error.order.not.found")
	OrderCannotBeCancelled  = New(400, "error.order.not.cancelled")
	OrderRejectReasonNeeded = New(40500, "error.order.reject.reason.required")
	OrderStatusInvalid      = New(40501, "error.order.status.invalid")

	// 分类
	CategorySomeNotFound = New(40202, "error.some.category.not.found")
	CategoryInUse        = New(40203, "error.category.in.use")
	CategoryNotFound     = New(40204, "error.category.not.found")

	// 商品
	ProductInUse      = New(40310, "error.product.in.use")
	ProductNotFound   = New(40311, "error.product.not.found")
	ProductOutOfStock = New(40312, "error.product.out.of.stock")
	ProductInvalid    = New(40300, "error.product.invalid")

	// 评价
	ReviewAlreadyExists = New(40600, "error.review.already.exists")
	ReviewNotAllowed    = New(40601, "error.review.not.allowed")

	// 导入导出 / 邮件
	ExcelImportFail = New(50001, "error.excel.import.fail")
	ExcelExportFail = New(50002, "error.excel.export.fail")
	ImportFileEmpty = New(50003, "error.import.file.empty")
	TaskNotFound    = New(40700, "error.import.task.not.found")
	MailSendFail    = New(50004, "error.mail.send.fail")
)

// messages 消息 key → 文案（请求期解析；后续接 i18n 只需替换这张表）
var messages = map[string]string{
	"error.uncategorized":                 "uncategorized error",
	"error.user.existed":                  "username already exists",
	"error.user.not.exist":                "user does not exist",
	"error.user.not.found.from.token":     "user from token not found",
	"error.verification.token.invalid":    "verification token is invalid or expired",
	"error.login.failed":                  "wrong username or password",
	"error.unauthorized":                  "unauthorized",
	"error.access.denied":                 "access denied",
	"error.token.invalid":                 "token is invalid or expired",
	"error.can.not.create.token":          "cannot create token",
	"error.cart.not.found":                "cart not found",
	"error.cart.empty":                    "cart is empty",
	"error.product.not.in.cart":           "product not found in cart",
	"error.order.not.found":               "order not found",
	"error.order.not.cancelled":           "only pending orders can be cancelled",
	"error.order.reject.reason.required":  "reject reason is required",
	"error.order.status.invalid":          "unknown order status",
	"error.some.category.not.found":       "categories not found: %s",
	"error.category.in.use":               "category is referenced by products",
	"error.category.not.found":            "category not found",
	"error.product.in.use":                "product is referenced by orders",
	"error.product.not.found":             "product not found",
	"error.product.out.of.stock":          "insufficient stock for product %q",
	"error.product.invalid":               "invalid product: %s",
	"error.review.already.exists":         "product already reviewed",
	"error.review.not.allowed":            "only delivered purchases can be reviewed",
	"error.excel.import.fail":             "excel import failed",
	"error.excel.export.fail":             "excel export failed",
	"error.import.file.empty":             "import file is empty",
	"error.import.task.not.found":         "import task not found",
	"error.mail.send.fail":                "failed to send mail",
}
