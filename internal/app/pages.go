package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Server-rendered page shells. The session gate has already run by the
// time these execute, so each handler only renders; who may see what is
// decided in one place.
func registerPages(r *gin.Engine) {
	r.GET("/", page("Dashboard"))
	r.GET("/dashboard", page("Dashboard"))
	r.GET("/wallet", page("Wallet"))
	r.GET("/transactions", page("Transactions"))
	r.GET("/topup", page("Top Up"))
	r.GET("/giftcards", page("Gift Cards"))
	r.GET("/crypto", page("Crypto"))
	r.GET("/withdraw", page("Withdraw"))
	r.GET("/settings", page("Settings"))
	r.GET("/admin", page("Admin"))

	r.GET("/auth/signin", page("Sign In"))
	r.GET("/auth/signup", page("Sign Up"))
}

func page(title string) gin.HandlerFunc {
	body := []byte(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>` + title + ` | HigestData</title></head>
<body><div id="app" data-page="` + title + `"></div><script src="/assets/app.js"></script></body>
</html>`)

	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", body)
	}
}
