package dto

type SettingsRequest struct {
	AdminEmail          string `json:"admin_email" validate:"required,email"`
	ReminderFreqMinutes int    `json:"reminder_freq_minutes" validate:"required,min=1,max=1440"`
}

type SettingsResponse struct {
	AdminEmail          string `json:"admin_email"`
	ReminderFreqMinutes int    `json:"reminder_freq_minutes"`
}
