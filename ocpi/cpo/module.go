package cpo

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"evocpi/entity"
	"evocpi/internal"
	"evocpi/ocpi"
	"evocpi/ocpi/authorize"
	"evocpi/ocpi/commands"
	"evocpi/ocpi/query"
	"evocpi/router"
	"github.com/go-playground/validator/v10"
)

const featureName = "CPO"

var validate = validator.New(validator.WithRequiredStructEnabled())

// partnerRoles may call every CPO endpoint
var partnerRoles = []entity.Role{entity.RoleEMSP, entity.RoleHUB}

type Options struct {
	PublicUrl     string
	BasePath      string
	OpenLocations bool
	OpenTariffs   bool
}

// Module serves the CPO side of the OCPI interface from a registry
type Module struct {
	registry internal.Registry
	commands *commands.Dispatcher
	options  Options
	log      internal.LogHandler
}

func New(registry internal.Registry, dispatcher *commands.Dispatcher, options Options, log internal.LogHandler) *Module {
	options.BasePath = strings.TrimRight(options.BasePath, "/")
	return &Module{
		registry: registry,
		commands: dispatcher,
		options:  options,
		log:      log,
	}
}

type routeSpec struct {
	method   string
	template string
	handler  router.Handler
}

// Register installs every CPO endpoint on the dispatcher
func (m *Module) Register(d *router.Dispatcher) error {
	routes := []routeSpec{
		{http.MethodGet, "/locations", m.listLocations},
		{http.MethodGet, "/locations/{locationId}", m.getLocation},
		{http.MethodGet, "/locations/{locationId}/{evseId}", m.getEvse},
		{http.MethodGet, "/locations/{locationId}/{evseId}/{connectorId}", m.getConnector},
		{http.MethodGet, "/tariffs", m.listTariffs},
		{http.MethodGet, "/tariffs/{tariffId}", m.getTariff},
		{http.MethodGet, "/sessions", m.listSessions},
		{http.MethodGet, "/sessions/{sessionId}", m.getSession},
		{http.MethodGet, "/cdrs", m.listCdrs},
		{http.MethodGet, "/cdrs/{cdrId}", m.getCdr},
		{http.MethodGet, "/tokens/{countryCode}/{partyId}", m.listTokens},
		{http.MethodGet, "/tokens/{countryCode}/{partyId}/{tokenId}", m.getToken},
		{http.MethodPut, "/tokens/{countryCode}/{partyId}/{tokenId}", m.putToken},
		{http.MethodPatch, "/tokens/{countryCode}/{partyId}/{tokenId}", m.patchToken},
		{http.MethodDelete, "/tokens/{countryCode}/{partyId}/{tokenId}", m.deleteToken},
	}
	for _, kind := range commands.Kinds {
		routes = append(routes, routeSpec{http.MethodPost, "/commands/" + string(kind), m.commandHandler(kind)})
	}
	for _, r := range routes {
		if err := d.Register(r.method, r.template, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// gate returns the denial envelope, nil when the caller may proceed
func (m *Module) gate(req *router.Request, openData bool) *ocpi.Response {
	result := authorize.Authorize(req.Identity, openData, partnerRoles...)
	if !result.Allowed {
		m.log.FeatureEvent(featureName, req.RemoteAddr, fmt.Sprintf("%s %s denied: %s", req.Method, req.Path, result.Info))
	}
	return result.Denied()
}

func (m *Module) endpoint(path string) query.Endpoint {
	return query.Endpoint{
		BaseUrl: m.options.PublicUrl,
		Path:    m.options.BasePath + path,
	}
}

func list[T entity.Record](m *Module, req *router.Request, all []T, match query.Predicate[T]) *ocpi.Response {
	filter := query.ParseFilter(req.Query)
	return query.Run(all, match, filter, m.endpoint(req.Path)).Response()
}

func single(record entity.Record) *ocpi.Response {
	return ocpi.Success(record).WithRecord(entity.ETag(record), record.Updated())
}

// failure maps a registry error to its envelope
func (m *Module) failure(req *router.Request, what string, err error) *ocpi.Response {
	if errors.Is(err, internal.ErrNotFound) {
		return ocpi.NotFound(fmt.Sprintf("Unknown %s", what))
	}
	m.log.Error(fmt.Sprintf("%s %s", req.Method, req.Path), err)
	return ocpi.ServerError(nil)
}
