package router

import (
	"net/http"

	"github.com/hammadpk/engine/internal/auth"
	"github.com/hammadpk/engine/internal/engine"
	"github.com/hammadpk/engine/internal/handlers"
	"github.com/hammadpk/engine/internal/middleware"
)

// New returns the API handler. Auth routes are public; everything else runs
// behind SessionAuth, and /admin additionally behind RequireAdmin.
func New(
	eng *engine.Engine,
	authSvc auth.Service,
	authHandler *auth.Handler,
	accountHandler *handlers.AccountHandler,
	walletHandler *handlers.WalletHandler,
	taskHandler *handlers.TaskHandler,
	adminHandler *handlers.AdminHandler,
) http.Handler {
	mux := http.NewServeMux()
	base := "/api/v1"

	mux.HandleFunc("POST "+base+"/auth/register", authHandler.Register)
	mux.HandleFunc("POST "+base+"/auth/login", authHandler.Login)

	authed := middleware.SessionAuth(authSvc, eng)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireAdmin(h))
	}

	mux.Handle("GET "+base+"/account/me", authed(http.HandlerFunc(accountHandler.Me)))
	mux.Handle("POST "+base+"/account/password", authed(http.HandlerFunc(accountHandler.ChangePassword)))
	mux.Handle("GET "+base+"/team", authed(http.HandlerFunc(accountHandler.Team)))

	mux.Handle("POST "+base+"/wallet/deposits", authed(http.HandlerFunc(walletHandler.SubmitDeposit)))
	mux.Handle("POST "+base+"/wallet/withdrawals", authed(http.HandlerFunc(walletHandler.SubmitWithdrawal)))
	mux.Handle("GET "+base+"/wallet/history", authed(http.HandlerFunc(walletHandler.History)))

	mux.Handle("GET "+base+"/tasks", authed(http.HandlerFunc(taskHandler.ListTasks)))
	mux.Handle("POST "+base+"/tasks/{id}/start", authed(http.HandlerFunc(taskHandler.StartTask)))
	mux.Handle("POST "+base+"/tasks/{id}/proof", authed(http.HandlerFunc(taskHandler.SubmitProof)))

	mux.Handle("GET "+base+"/admin/overview", admin(adminHandler.Overview))
	mux.Handle("GET "+base+"/admin/users", admin(adminHandler.ListUsers))
	mux.Handle("PATCH "+base+"/admin/users/{id}", admin(adminHandler.UpdateUser))
	mux.Handle("GET "+base+"/admin/tasks", admin(taskHandler.ListTasks))
	mux.Handle("POST "+base+"/admin/tasks", admin(adminHandler.CreateTask))
	mux.Handle("PATCH "+base+"/admin/tasks/{id}", admin(adminHandler.UpdateTask))
	mux.Handle("DELETE "+base+"/admin/tasks/{id}", admin(adminHandler.DeleteTask))
	mux.Handle("GET "+base+"/admin/deposits", admin(adminHandler.ListDeposits))
	mux.Handle("GET "+base+"/admin/withdrawals", admin(adminHandler.ListWithdrawals))
	mux.Handle("GET "+base+"/admin/submissions", admin(adminHandler.ListSubmissions))
	mux.Handle("POST "+base+"/admin/deposits/{id}/decide", admin(adminHandler.DecideDeposit))
	mux.Handle("POST "+base+"/admin/withdrawals/{id}/decide", admin(adminHandler.DecideWithdrawal))
	mux.Handle("POST "+base+"/admin/submissions/{id}/decide", admin(adminHandler.DecideSubmission))
	mux.Handle("PUT "+base+"/admin/settings", admin(adminHandler.UpdateSettings))

	return mux
}
