package waitlist

// User-facing messages. The product is Japanese-facing, so everything a
// visitor can see ships in Japanese; machine-facing validation detail stays
// English like the rest of the API surface.
const (
	MsgSignupComplete    = "登録が完了しました！"
	MsgEmailRequired     = "有効なメールアドレスを入力してください"
	MsgInvalidType       = "invalid type"
	MsgAlreadyRegistered = "このメールアドレスは既に登録されています"
	MsgSignupFailed      = "登録に失敗しました。もう一度お試しください。"
	MsgListFailed        = "データの取得に失敗しました"
)
