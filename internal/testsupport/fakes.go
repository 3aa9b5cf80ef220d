package testsupport

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/timereg-api/internal/application/ports"
)

var (
	_ ports.ResetCodeStore = (*ResetCodes)(nil)
	_ ports.ResetNotifier  = (*Outbox)(nil)
	_ ports.TokenRevoker   = (*Revoked)(nil)
)

// ResetCodes almacén de códigos en memoria, de un solo uso y sin caducidad.
type ResetCodes struct {
	mu    sync.Mutex
	codes map[string]string
}

func NewResetCodes() *ResetCodes {
	return &ResetCodes{codes: map[string]string{}}
}

func (r *ResetCodes) Save(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[strings.ToLower(email)] = code
	return nil
}

func (r *ResetCodes) Consume(_ context.Context, email, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(email)
	stored, ok := r.codes[key]
	if !ok {
		return false, nil
	}
	delete(r.codes, key)
	return stored == code, nil
}

// SentCode mensaje capturado por Outbox.
type SentCode struct {
	Email string
	Code  string
}

// Outbox notificador que guarda los códigos enviados.
type Outbox struct {
	mu   sync.Mutex
	Sent []SentCode
	Err  error
}

func (o *Outbox) SendResetCode(_ context.Context, email, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.Sent = append(o.Sent, SentCode{Email: email, Code: code})
	return nil
}

// Last devuelve el último código enviado, o vacío.
func (o *Outbox) Last() SentCode {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.Sent) == 0 {
		return SentCode{}
	}
	return o.Sent[len(o.Sent)-1]
}

// Revoked lista negra de tokens en memoria.
type Revoked struct {
	mu  sync.Mutex
	ids map[string]time.Duration
	Err error
}

func NewRevoked() *Revoked {
	return &Revoked{ids: map[string]time.Duration{}}
}

func (r *Revoked) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ttl <= 0 {
		return nil
	}
	r.ids[tokenID] = ttl
	return nil
}

func (r *Revoked) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	_, ok := r.ids[tokenID]
	return ok, nil
}
