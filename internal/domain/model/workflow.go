package model

// Intent はユーザー発言から推定した意図
type Intent string

const (
	IntentSpotSearch           Intent = "spot_search"
	IntentGeneralChat          Intent = "general_chat"
	IntentSpotDetail           Intent = "spot_detail"
	IntentRouteCreationExecute Intent = "route_creation_execute"
)

// Intents は定義済みの意図一覧
func Intents() []Intent {
	return []Intent{IntentSpotSearch, IntentGeneralChat, IntentSpotDetail, IntentRouteCreationExecute}
}

// SpotSearchClassification はLLMによる二値分類の結果
// Confidence と Reason は参考情報で、分岐には使用しない
type SpotSearchClassification struct {
	IsSpotSearch bool    `json:"isSpotSearch"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

// WorkflowInput は1ターン分の入力
type WorkflowInput struct {
	PlanID           string            `json:"plan_id"`
	Messages         []ChatMessage     `json:"messages"`
	RecommendedSpots *RecommendedSpots `json:"recommendedSpots,omitempty"`
}

// WorkflowOutput は1ターン分の出力
type WorkflowOutput struct {
	Message          *string           `json:"message,omitempty"`
	RecommendedSpots *RecommendedSpots `json:"recommendedSpots,omitempty"`
	Polyline         *string           `json:"polyline,omitempty"`
	OrderedSpots     []OrderedSpot     `json:"orderedSpots,omitempty"`
}

// NewWorkflowOutput はメッセージとおすすめスポットから出力を作成
func NewWorkflowOutput(message string, spots *RecommendedSpots) *WorkflowOutput {
	return &WorkflowOutput{
		Message:          &message,
		RecommendedSpots: spots,
	}
}

// MessageText はメッセージ本文を返す（未設定なら空文字列）
func (o *WorkflowOutput) MessageText() string {
	if o == nil || o.Message == nil {
		return ""
	}
	return *o.Message
}
