package betslip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/sports-bet-web/internal/shared/cache"
	"github.com/radieske/sports-bet-web/internal/shared/metrics"
	"github.com/radieske/sports-bet-web/internal/web-frontend/backend/dto"
	"github.com/radieske/sports-bet-web/internal/web-frontend/session"
	"github.com/radieske/sports-bet-web/pkg/contracts/events"
)

// Sessions é o que o bet slip precisa da sessão
type Sessions interface {
	Load(ctx context.Context, sid string) (session.Session, error)
	PlaceBet(ctx context.Context, sid string, req dto.PlaceBetRequest) (dto.Envelope, error)
	Refresh(ctx context.Context, sid string) error
}

// Recorder recebe cada tentativa de envio (Kafka, auditoria em Postgres)
type Recorder interface {
	RecordSubmission(ctx context.Context, e events.BetSlipSubmitted) error
}

// Result é o desfecho de um item enviado
type Result struct {
	ItemID       string `json:"itemId"`
	Match        string `json:"match"`
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	PotentialWin string `json:"potentialWin,omitempty"`
}

// BatchReport agrega o envio em lote, na ordem de exibição
type BatchReport struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
	Messages  []string `json:"messages"`
}

// Service guarda o bet slip de cada sid no cache. Operações do mesmo sid são
// serializadas, inclusive durante o envio.
type Service struct {
	log       *zap.Logger
	store     cache.Store
	ttl       time.Duration
	sessions  Sessions
	recorders []Recorder

	mu    sync.Mutex
	locks map[string]*sidLock
}

// sidLock serializa as operações de um sid; refs conta quem segura ou espera
type sidLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(log *zap.Logger, store cache.Store, ttl time.Duration, sessions Sessions, recorders ...Recorder) *Service {
	return &Service{
		log:       log,
		store:     store,
		ttl:       ttl,
		sessions:  sessions,
		recorders: recorders,
		locks:     make(map[string]*sidLock),
	}
}

func cartKey(sid string) string { return "betslip:" + sid }

// lock trava só o sid pedido; a entrada sai do mapa quando ninguém mais a usa
func (s *Service) lock(sid string) func() {
	s.mu.Lock()
	l, ok := s.locks[sid]
	if !ok {
		l = &sidLock{}
		s.locks[sid] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sid)
		}
		s.mu.Unlock()
	}
}

func (s *Service) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

func (s *Service) Get(ctx context.Context, sid string) (*Cart, error) {
	defer s.lock(sid)()
	return s.load(ctx, sid)
}

func (s *Service) Add(ctx context.Context, sid string, sel Selection) (*Cart, error) {
	it, err := NewItem(sel)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sid, func(c *Cart) error {
		c.Add(it)
		return nil
	})
}

func (s *Service) Remove(ctx context.Context, sid, id string) (*Cart, error) {
	return s.mutate(ctx, sid, func(c *Cart) error {
		if !c.Remove(id) {
			return ErrItemNotFound
		}
		return nil
	})
}

func (s *Service) ClearAll(ctx context.Context, sid string) (*Cart, error) {
	return s.mutate(ctx, sid, func(c *Cart) error {
		c.ClearAll()
		return nil
	})
}

func (s *Service) SetStake(ctx context.Context, sid, id, raw string) (*Cart, error) {
	return s.mutate(ctx, sid, func(c *Cart) error { return c.SetStake(id, raw) })
}

// Close fecha o painel sem mexer nos itens
func (s *Service) Close(ctx context.Context, sid string) (*Cart, error) {
	return s.mutate(ctx, sid, func(c *Cart) error {
		c.Open = false
		return nil
	})
}

// SubmitOne envia um item. Stake inválido ou sessão ausente falham sem chamar
// o backend. Sucesso remove o item e revalida a sessão; falha mantém o item.
func (s *Service) SubmitOne(ctx context.Context, sid, id string) (Result, error) {
	defer s.lock(sid)()

	cart, err := s.load(ctx, sid)
	if err != nil {
		return Result{}, err
	}
	it, ok := cart.Find(id)
	if !ok {
		return Result{}, ErrItemNotFound
	}
	stake, err := cart.Stake(id)
	if err != nil {
		return Result{ItemID: id, Match: it.Match, Message: Message(err)}, err
	}
	user, err := s.requireSession(ctx, sid)
	if err != nil {
		return Result{ItemID: id, Match: it.Match, Message: Message(err)}, err
	}

	res, err := s.place(ctx, sid, user, it, stake, false)
	if !res.Success {
		return res, err
	}

	cart.Remove(id)
	if serr := s.save(ctx, sid, cart); serr != nil {
		return res, serr
	}
	s.refresh(ctx, sid)
	return res, nil
}

// SubmitAll valida todos os stakes antes de qualquer chamada e depois envia um a
// um, na ordem. Falha de um item não interrompe os demais, exceto sessão expirada:
// a partir daí os itens restantes falham com "Authentication expired" sem envio.
// Só os enviados saem do slip e a sessão é revalidada uma vez se algum passou.
func (s *Service) SubmitAll(ctx context.Context, sid string) (BatchReport, error) {
	defer s.lock(sid)()

	cart, err := s.load(ctx, sid)
	if err != nil {
		return BatchReport{}, err
	}
	stakes, err := cart.ValidateAll()
	if err != nil {
		return BatchReport{Messages: []string{Message(err)}}, err
	}
	user, err := s.requireSession(ctx, sid)
	if err != nil {
		return BatchReport{Messages: []string{Message(err)}}, err
	}

	report := BatchReport{Results: make([]Result, 0, len(cart.Items))}
	var placed []string
	var expired error
	items := append([]Item(nil), cart.Items...)
	for _, it := range items {
		var res Result
		if expired != nil {
			// sessão já apagada: os itens restantes nem vão ao backend
			res = Result{ItemID: it.ID, Match: it.Match, Message: Message(expired)}
			metrics.BetSlipSubmissions.WithLabelValues("batch", "expired").Inc()
		} else {
			res, err = s.place(ctx, sid, user, it, stakes[it.ID], true)
			if errors.Is(err, session.ErrAuthExpired) {
				expired = err
			}
		}
		report.Results = append(report.Results, res)
		if res.Success {
			report.Succeeded++
			placed = append(placed, it.ID)
			continue
		}
		report.Failed++
		report.Messages = append(report.Messages, fmt.Sprintf("Failed to place bet on %s: %s", it.Match, res.Message))
	}

	if report.Succeeded > 0 {
		report.Messages = append(report.Messages, "Successfully placed "+countBets(report.Succeeded))
		for _, id := range placed {
			cart.Remove(id)
		}
		if err := s.save(ctx, sid, cart); err != nil {
			return report, err
		}
		s.refresh(ctx, sid)
	}
	if report.Failed > 0 {
		report.Messages = append(report.Messages, countBets(report.Failed)+" failed to place")
	}
	return report, expired
}

func countBets(n int) string {
	if n == 1 {
		return "1 bet"
	}
	return fmt.Sprintf("%d bets", n)
}

func (s *Service) requireSession(ctx context.Context, sid string) (*session.User, error) {
	sess, err := s.sessions.Load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, session.ErrNotAuthenticated
	}
	return sess.User, nil
}

// place faz uma chamada ao backend e registra a tentativa; o erro devolvido só
// é não-nil para sessão expirada ou ausente
func (s *Service) place(ctx context.Context, sid string, user *session.User, it Item, stake decimal.Decimal, batch bool) (Result, error) {
	req := dto.PlaceBetRequest{
		FixtureID: it.FixtureID,
		BetType:   NormalizeBetType(it.BetType),
		Selection: NormalizeSelection(it.Selection),
		Stake:     stake.InexactFloat64(),
		Odds:      it.Odds,
	}
	env, err := s.sessions.PlaceBet(ctx, sid, req)

	res := Result{ItemID: it.ID, Match: it.Match}
	switch {
	case err != nil:
		res.Message = Message(err)
	case env.Success:
		res.Success = true
		res.PotentialWin = FormatMoney(PotentialWin(stake, it.Odds))
		res.Message = "Bet placed successfully! Potential win: $" + res.PotentialWin
	default:
		res.Message = env.Message
		if res.Message == "" {
			res.Message = "Failed to place bet"
		}
	}

	mode := "single"
	if batch {
		mode = "batch"
	}
	result := "failed"
	if res.Success {
		result = "ok"
	}
	metrics.BetSlipSubmissions.WithLabelValues(mode, result).Inc()

	s.record(ctx, events.BetSlipSubmitted{
		SubmissionID: uuid.NewString(),
		SessionID:    sid,
		UserID:       user.ID,
		ItemID:       it.ID,
		FixtureID:    it.FixtureID,
		BetType:      req.BetType,
		Selection:    req.Selection,
		Stake:        stake.String(),
		Odds:         it.Odds,
		Batch:        batch,
		Success:      res.Success,
		Message:      res.Message,
		TsUnixMs:     time.Now().UnixMilli(),
	})
	return res, err
}

func (s *Service) record(ctx context.Context, e events.BetSlipSubmitted) {
	if len(s.recorders) == 0 {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	for _, r := range s.recorders {
		if err := r.RecordSubmission(rctx, e); err != nil {
			s.log.Warn("record bet slip submission", zap.String("item", e.ItemID), zap.Error(err))
		}
	}
}

func (s *Service) refresh(ctx context.Context, sid string) {
	if err := s.sessions.Refresh(ctx, sid); err != nil {
		s.log.Warn("session refresh after bet", zap.String("sid", sid), zap.Error(err))
	}
}

func (s *Service) mutate(ctx context.Context, sid string, fn func(*Cart) error) (*Cart, error) {
	defer s.lock(sid)()
	cart, err := s.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if err := fn(cart); err != nil {
		return cart, err
	}
	return cart, s.save(ctx, sid, cart)
}

func (s *Service) load(ctx context.Context, sid string) (*Cart, error) {
	b, err := s.store.Get(ctx, cartKey(sid))
	if errors.Is(err, cache.ErrMiss) {
		return NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load bet slip: %w", err)
	}
	c := NewCart()
	if err := json.Unmarshal(b, c); err != nil {
		s.log.Warn("discarding unreadable bet slip", zap.String("sid", sid), zap.Error(err))
		return NewCart(), nil
	}
	if c.Stakes == nil {
		c.Stakes = map[string]string{}
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, sid string, c *Cart) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode bet slip: %w", err)
	}
	if err := s.store.Set(ctx, cartKey(sid), b, s.ttl); err != nil {
		return fmt.Errorf("save bet slip: %w", err)
	}
	return nil
}
