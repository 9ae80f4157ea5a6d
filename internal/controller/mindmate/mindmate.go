package mindmate

// ControllerV1 v1 API控制器
type ControllerV1 struct{}

func NewV1() *ControllerV1 {
	return &ControllerV1{}
}
