package model

// RouteCreationTrigger はルート作成を開始するための定型文
const RouteCreationTrigger = "旅行ルート作成を開始して"

// ユーザーに返す定型メッセージ
const (
	MessageSpotsUpdated        = "おすすめスポットを更新しました。"
	MessageSpotSearchFailed    = "申し訳ありません。スポットの検索中にエラーが発生しました。もう一度お試しください。"
	MessagePlaceNotFound       = "該当するスポットが見つかりませんでした。"
	MessageSpotDetailFailed    = "申し訳ありません。スポットの詳細情報を取得できませんでした。"
	MessageNoSpotsSelected     = "ルートを作成するスポットが選択されていません。地図上でスポットを選択してから、もう一度お試しください。"
	MessageRouteCreationFailed = "申し訳ありません。ルートの作成中にエラーが発生しました。"
	MessageChatFallback        = "すみません、うまくお答えできませんでした。もう一度お試しください。"
)

// DetailContextTurns はスポット詳細の説明に使う直近の会話数
const DetailContextTurns = 10
