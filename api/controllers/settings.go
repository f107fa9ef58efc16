package controllers

import (
	"net/http"

	"github.com/dukkanhq/dukkan-backend/api/responses"
	"github.com/dukkanhq/dukkan-backend/pkg/config"
)

// StoreSettings exposes the storefront settings the client needs before it
// renders anything: default locale and the WhatsApp contact number.
func StoreSettings(cfg config.StoreConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"default_locale": cfg.DefaultLocale,
			"whatsapp_phone": cfg.WhatsAppPhone,
		})
	}
}
