package grpc

import (
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SetServing updates the health status of both the overall server and
// ServiceName.
func (s *GRPCServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}
