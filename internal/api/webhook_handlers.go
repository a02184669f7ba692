package api

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/Jiya-Rathi/Bot/internal/bot"
	"github.com/Jiya-Rathi/Bot/internal/ledger"
)

// maxUploadBytes caps inbound CSV ledger downloads.
const maxUploadBytes = 5 << 20

// twimlResponse is the Twilio messaging reply envelope.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// WebhookHandler handles inbound Twilio WhatsApp messages.
type WebhookHandler struct {
	bot    *bot.Bot
	store  ledger.Store
	client *http.Client
	logger *slog.Logger
}

// NewWebhookHandler creates a webhook handler. The HTTP client is used
// to download WhatsApp media attachments from Twilio.
func NewWebhookHandler(b *bot.Bot, store ledger.Store, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		bot:    b,
		store:  store,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// HandleMessage handles POST /webhook/twilio. Twilio posts form fields;
// the reply goes back as TwiML. Errors still answer 200 with an
// apologetic message, because a non-2xx makes Twilio retry and the user
// would get duplicate replies.
func (h *WebhookHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	mediaURL := r.PostFormValue("MediaUrl0")
	mediaType := r.PostFormValue("MediaContentType0")

	if from == "" {
		http.Error(w, "Missing From field", http.StatusBadRequest)
		return
	}

	var reply string
	if mediaURL != "" && mediaType == "text/csv" {
		reply = h.handleCSVUpload(r, from, mediaURL)
	} else {
		reply = h.bot.HandleMessage(r.Context(), from, body)
	}

	writeTwiML(w, reply)
}

func (h *WebhookHandler) handleCSVUpload(r *http.Request, userID, mediaURL string) string {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, mediaURL, nil)
	if err != nil {
		h.logger.Error("invalid media URL", "error", err)
		return "Sorry, I couldn't read that attachment."
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("failed to download media", "error", err)
		return "Sorry, I couldn't download your ledger. Please try sending it again."
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.logger.Error("media download rejected", "status", resp.StatusCode)
		return "Sorry, I couldn't download your ledger. Please try sending it again."
	}

	transactions, err := ledger.ParseCSV(io.LimitReader(resp.Body, maxUploadBytes))
	if err != nil {
		h.logger.Warn("csv parse failed", "user_id", userID, "error", err)
		return "That CSV didn't look right. I need Date, Amount and Description columns."
	}

	if err := h.store.Save(r.Context(), userID, transactions); err != nil {
		h.logger.Error("failed to save ledger", "user_id", userID, "error", err)
		return "Sorry, I couldn't save your ledger. Please try again."
	}

	return fmt.Sprintf("Loaded %d transactions. Try 'forecast', 'score' or 'what if ...' next.", len(transactions))
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)

	io.WriteString(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(twimlResponse{Message: message}); err != nil {
		// Headers are gone already; nothing to do but note it.
		slog.Default().Error("failed to encode TwiML", "error", err)
	}
}
