package models

// ErrorResponse - стандартная структура для ответа об ошибке в формате JSON.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IDResponse - ответ на создание ресурса.
type IDResponse struct {
	ID string `json:"id"`
}

// StatusResponse - ответ на операции без тела результата.
type StatusResponse struct {
	Status string `json:"status"`
}
