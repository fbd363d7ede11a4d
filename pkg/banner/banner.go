package banner

import (
	"fmt"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/config"
)

const banner = `
███████╗██████╗ ██╗██████╗ ███████╗
██╔════╝██╔══██╗██║██╔══██╗██╔════╝
███████╗██████╔╝██║██████╔╝█████╗
╚════██║██╔═══╝ ██║██╔══██╗██╔══╝
███████║██║     ██║██║  ██║███████╗
╚══════╝╚═╝     ╚═╝╚═╝  ╚═╝╚══════╝
`

// PrintWithEff prints the startup banner with runtime info from the
// effective config.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:     %s\n", eff.Addr)
	fmt.Printf("Session KV: %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:    %s\n", version)
	}
	if eff.Source != "" {
		fmt.Printf("Config source: %s\n", eff.Source)
	}
	if eff.Config != nil {
		fmt.Printf("Auth latency:  %s\n", eff.Config.Auth.Latency.Duration())
		fmt.Printf("Lenient updates: %v\n", eff.Config.Policy.LenientUpdates)
		if eff.Config.Demo.ResetEnabled {
			fmt.Printf("Demo reset:    %s\n", eff.Config.Demo.ResetCron)
		}
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/auth/login | /v1/auth/register | /v1/auth/logout")
	fmt.Println("GET  /v1/threads?tag=&q=&sort=&mine=  POST /v1/threads")
	fmt.Println("GET|PATCH /v1/threads/{id}  POST /v1/threads/{id}/fork")
	fmt.Println("POST /v1/threads/{id}/reactions/{symbol}  /v1/threads/{id}/bookmark")
	fmt.Println("GET|POST /v1/collections  PATCH /v1/collections/{id}")
	fmt.Println("GET  /v1/tags  /v1/me/stats")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://%s/v1/auth/login' -d '{\"email\":\"demo@threadspire.com\",\"password\":\"password123\"}'\n", eff.Addr)
	fmt.Printf("curl 'http://%s/v1/threads?sort=newest'\n", eff.Addr)
}
