package order

import (
	"github.com/IBM/sarama"
	"github.com/manify/cram-eats/internal/domain"
	"go.uber.org/zap"
)

func (s *OrderServiceSuite) TestStatusEventAdvancesOrder() {
	placed := s.placeOrder()
	handler := StatusEventHandler(s.svc, zap.NewNop())

	msg := &sarama.ConsumerMessage{
		Topic: "order-status-events",
		Value: []byte(`{"order_id":"` + placed.ID + `","status":"PREPARING"}`),
	}
	s.Require().NoError(handler(s.ctx, msg))

	o, err := s.svc.GetOrderByID(placed.ID)
	s.Require().NoError(err)
	s.Require().Equal(domain.OrderStatusPreparing, o.Status)
}

func (s *OrderServiceSuite) TestOutOfOrderEventIsAbsorbed() {
	placed := s.placeOrder()
	handler := StatusEventHandler(s.svc, zap.NewNop())

	deliver := func(status string) error {
		return handler(s.ctx, &sarama.ConsumerMessage{
			Value: []byte(`{"order_id":"` + placed.ID + `","status":"` + status + `"}`),
		})
	}

	s.Require().NoError(deliver("OUT_FOR_DELIVERY"))
	// The CONFIRMED event arrives late; it must be acknowledged without
	// regressing the order.
	s.Require().NoError(deliver("CONFIRMED"))

	o, err := s.svc.GetOrderByID(placed.ID)
	s.Require().NoError(err)
	s.Require().Equal(domain.OrderStatusOutForDelivery, o.Status)
}

func (s *OrderServiceSuite) TestMalformedAndUnknownEventsAreDropped() {
	handler := StatusEventHandler(s.svc, zap.NewNop())

	s.Require().NoError(handler(s.ctx, &sarama.ConsumerMessage{Value: []byte(`{not json`)}))
	s.Require().NoError(handler(s.ctx, &sarama.ConsumerMessage{Value: []byte(`{"order_id":"ghost","status":"CONFIRMED"}`)}))
	s.Require().NoError(handler(s.ctx, &sarama.ConsumerMessage{Value: []byte(`{"order_id":"ghost","status":"TELEPORTING"}`)}))
}
