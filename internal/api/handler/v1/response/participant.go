package response

type BalanceResponse struct {
	Gained    float64 `json:"gained"`
	Spent     float64 `json:"spent"`
	Available float64 `json:"available"`
}

type PrestigeResponse struct {
	ParticipantID uint    `json:"participant_id"`
	Prestige      float64 `json:"prestige"`
}
