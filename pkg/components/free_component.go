package components

// FreeComponent free 家族的种类标记（comet / asteroid / satellite）
type FreeComponent struct {
	Kind string
}
