package adms

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ADMS-backend/internal/attendance"
	"ADMS-backend/internal/commands"
)

// StatusOK は cdata / devicecmd の固定応答
const StatusOK = "OK"

type Registry interface {
	Touch(ctx context.Context, sn string) error
}

type EventSink interface {
	Append(ctx context.Context, e *attendance.Event) error
}

type Queue interface {
	Dequeue(ctx context.Context, sn string) (payload string, ok bool, err error)
	Complete(ctx context.Context, sn string) (int64, error)
}

// Device は要求元端末。SN クエリが無い場合 Known=false（打刻の device_sn は NULL になる）。
type Device struct {
	SN    string
	Known bool
}

type IngestResult struct {
	Accepted int
	Dropped  int
}

// Service は端末プロトコル3操作。どの操作も最初に Touch し、業務上の「何もない」はエラーにしない。
type Service struct {
	devices Registry
	events  EventSink
	queue   Queue
	decoder *Decoder
	metrics *Metrics
	log     *zap.Logger
	now     func() time.Time
}

type Options struct {
	Devices Registry
	Events  EventSink
	Queue   Queue
	Decoder *Decoder
	Metrics *Metrics
	Logger  *zap.Logger
}

func NewService(o Options) *Service {
	s := &Service{
		devices: o.Devices,
		events:  o.Events,
		queue:   o.Queue,
		decoder: o.Decoder,
		metrics: o.Metrics,
		log:     o.Logger,
		now:     time.Now,
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Touch だけを行う（本文の読み取りに失敗した場合など）
func (s *Service) Touch(ctx context.Context, d Device) error {
	return s.devices.Touch(ctx, d.SN)
}

// Ingest は cdata 本文を1行ずつ独立して保存する。
// 途中で保存に失敗したらそこで止めてエラーを返すが、それまでの行は残る。
func (s *Service) Ingest(ctx context.Context, d Device, body []byte) (IngestResult, error) {
	if err := s.devices.Touch(ctx, d.SN); err != nil {
		return IngestResult{}, err
	}

	text, err := s.decoder.Decode(body)
	if err != nil {
		s.log.Warn("payload decode failed, parsing raw bytes",
			zap.String("sn", d.SN), zap.String("charset", s.decoder.Charset()), zap.Error(err))
		text = body
	}

	parsed := ParseAttendance(text)
	for _, drop := range parsed.Drops {
		s.metrics.dropped(drop.Reason)
		s.log.Debug("attendance line dropped",
			zap.String("sn", d.SN),
			zap.Int("line", drop.Line),
			zap.String("reason", string(drop.Reason)),
			zap.String("raw", drop.Raw))
	}

	var sn *string
	if d.Known {
		v := d.SN
		sn = &v
	}
	res := IngestResult{Dropped: len(parsed.Drops)}
	for _, rec := range parsed.Records {
		e := &attendance.Event{
			PIN:       rec.PIN,
			Timestamp: rec.Time,
			WorkCode:  rec.WorkCode,
			DeviceSN:  sn,
			CreatedAt: s.now().UTC(),
		}
		if err := s.events.Append(ctx, e); err != nil {
			s.metrics.accepted(res.Accepted)
			return res, err
		}
		res.Accepted++
	}
	s.metrics.accepted(res.Accepted)

	if res.Dropped > 0 {
		s.log.Info("attendance lines dropped",
			zap.String("sn", d.SN), zap.Int("accepted", res.Accepted), zap.Int("dropped", res.Dropped))
	}
	return res, nil
}

// Poll は最古の pending を1件 sent にして返す。無ければ commands.IdleCommand。
func (s *Service) Poll(ctx context.Context, d Device) (string, error) {
	if err := s.devices.Touch(ctx, d.SN); err != nil {
		return "", err
	}
	payload, ok, err := s.queue.Dequeue(ctx, d.SN)
	if err != nil {
		return "", err
	}
	s.metrics.poll(ok)
	if !ok {
		return commands.IdleCommand, nil
	}
	s.log.Debug("command delivered", zap.String("sn", d.SN))
	return payload, nil
}

// Report は実行結果の報告。本文は解釈せず、その端末の sent をすべて completed にする。
func (s *Service) Report(ctx context.Context, d Device, body []byte) error {
	if err := s.devices.Touch(ctx, d.SN); err != nil {
		return err
	}
	n, err := s.queue.Complete(ctx, d.SN)
	if err != nil {
		return err
	}
	s.metrics.completed.Add(float64(n))
	if n > 0 {
		s.log.Debug("commands completed", zap.String("sn", d.SN), zap.Int64("count", n), zap.Int("body_bytes", len(body)))
	}
	return nil
}
