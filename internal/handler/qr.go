package handler

import (
	"math"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/captainsdeck/backend/internal/domain"
	"github.com/captainsdeck/backend/internal/spd"
)

// GetPaymentQR handles GET /trips/{id}/qr?payment=deposit|final&currency=EUR|CZK.
// It renders an SPD 1.0 payment descriptor for the requested installment as
// a PNG. EUR amounts keep full precision; CZK amounts are converted at the
// current rate and rounded to whole crowns.
func (s *Server) GetPaymentQR(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	payment := r.URL.Query().Get("payment")
	if payment != string(domain.PaymentDeposit) && payment != string(domain.PaymentFinal) {
		requestError(w, "payment must be deposit or final")
		return
	}
	currency := domain.Currency(r.URL.Query().Get("currency"))
	if !currency.Valid() {
		requestError(w, "currency must be EUR or CZK")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	amount := trip.DepositAmount
	if payment == string(domain.PaymentFinal) {
		amount = trip.FinalPaymentAmount
	}
	if amount <= 0 {
		requestError(w, "no "+payment+" amount is set for this trip")
		return
	}

	account := trip.CaptainIbanEur
	if currency == domain.CurrencyCZK {
		account = trip.CaptainIbanCzk
		amount = math.Round(s.conv.Convert(amount))
	}
	if account == "" {
		requestError(w, "no captain IBAN is set for "+string(currency))
		return
	}

	payload := spd.Payload(account, amount, currency, trip.Name+" "+payment)
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
