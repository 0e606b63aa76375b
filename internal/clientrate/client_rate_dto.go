package clientrate

type CreateClientRateRequest struct {
	ClientID        string `json:"client_id" binding:"required,uuid"`
	HourlyRatePence int64  `json:"hourly_rate_pence" binding:"required,gt=0"`
	EffectiveDate   string `json:"effective_date" binding:"required"`
}

type UpdateClientRateRequest struct {
	ClientID        string `json:"client_id" binding:"required,uuid"`
	HourlyRatePence int64  `json:"hourly_rate_pence" binding:"required,gt=0"`
	EffectiveDate   string `json:"effective_date" binding:"required"`
}

type ClientRateResponse struct {
	ID              string `json:"id"`
	ClientID        string `json:"client_id"`
	ClientName      string `json:"client_name,omitempty"`
	HourlyRatePence int64  `json:"hourly_rate_pence"`
	EffectiveDate   string `json:"effective_date"`
}
