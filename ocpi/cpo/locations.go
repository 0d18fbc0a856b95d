package cpo

import (
	"context"

	"evocpi/entity"
	"evocpi/entity/tariff"
	"evocpi/ocpi"
	"evocpi/router"
)

func (m *Module) listLocations(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, m.options.OpenLocations); denied != nil {
		return denied
	}
	locations, err := m.registry.Locations(ctx)
	if err != nil {
		return m.failure(req, "location", err)
	}
	return list(m, req, locations, (*entity.Location).Matches)
}

func (m *Module) getLocation(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, m.options.OpenLocations); denied != nil {
		return denied
	}
	location, err := m.registry.Location(ctx, req.Param("locationId"))
	if err != nil {
		return m.failure(req, "location", err)
	}
	return single(location)
}

func (m *Module) getEvse(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, m.options.OpenLocations); denied != nil {
		return denied
	}
	location, err := m.registry.Location(ctx, req.Param("locationId"))
	if err != nil {
		return m.failure(req, "location", err)
	}
	evse := location.Evse(req.Param("evseId"))
	if evse == nil {
		return ocpi.NotFound("Unknown EVSE")
	}
	return single(evse)
}

func (m *Module) getConnector(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, m.options.OpenLocations); denied != nil {
		return denied
	}
	location, err := m.registry.Location(ctx, req.Param("locationId"))
	if err != nil {
		return m.failure(req, "location", err)
	}
	evse := location.Evse(req.Param("evseId"))
	if evse == nil {
		return ocpi.NotFound("Unknown EVSE")
	}
	connector := evse.Connector(req.Param("connectorId"))
	if connector == nil {
		return ocpi.NotFound("Unknown connector")
	}
	return single(connector)
}

func (m *Module) listTariffs(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, m.options.OpenTariffs); denied != nil {
		return denied
	}
	tariffs, err := m.registry.Tariffs(ctx)
	if err != nil {
		return m.failure(req, "tariff", err)
	}
	return list(m, req, tariffs, (*tariff.Tariff).Matches)
}

func (m *Module) getTariff(ctx context.Context, req *router.Request) *ocpi.Response {
	if denied := m.gate(req, m.options.OpenTariffs); denied != nil {
		return denied
	}
	t, err := m.registry.Tariff(ctx, req.Param("tariffId"))
	if err != nil {
		return m.failure(req, "tariff", err)
	}
	return single(t)
}
