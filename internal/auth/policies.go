package auth

import (
	"fmt"
	"go-blog-app/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures that the application has a baseline set of
// authorization rules. It checks if each policy exists before adding it,
// making the operation idempotent and safe to run on every application start.
//
// Roles form a chain: 'admin' inherits from 'user', which inherits from
// 'anonymous'. The role is an explicit attribute of the account, so
// administrator identity never depends on a particular user id.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	policies := [][]string{
		// Anonymous visitors can read everything and reach the auth flows.
		{"anonymous", "/", "GET"},
		{"anonymous", "/register", "GET"},
		{"anonymous", "/register", "POST"},
		{"anonymous", "/login", "GET"},
		{"anonymous", "/login", "POST"},
		{"anonymous", "/logout", "GET"},
		{"anonymous", "/post/*", "GET"},
		// Comment submission POSTs to the post page; the handler itself
		// redirects unauthenticated submitters to the login page.
		{"anonymous", "/post/*", "POST"},
		{"anonymous", "/about", "GET"},
		{"anonymous", "/contact", "GET"},
		// The contact handler redirects unauthenticated POSTs to login.
		{"anonymous", "/contact", "POST"},
		{"anonymous", "/robots.txt", "GET"},
		{"anonymous", "/sitemap.xml", "GET"},
		{"anonymous", "/static/*", "GET"},

		// Signed-in users can additionally delete their own comments; exact
		// ownership of the targeted comment is checked by a separate guard.
		{"user", "/delete_comment", "GET"},

		// Administrators manage posts.
		{"admin", "/new-post", "GET"},
		{"admin", "/new-post", "POST"},
		{"admin", "/edit-post/*", "GET"},
		{"admin", "/edit-post/*", "POST"},
		{"admin", "/delete/*", "GET"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	roleLinks := [][2]string{
		{"user", "anonymous"},
		{"admin", "user"},
	}
	for _, link := range roleLinks {
		if has, _ := e.HasRoleForUser(link[0], link[1]); !has {
			if _, err := e.AddRoleForUser(link[0], link[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role '%s' -> '%s'", link[0], link[1]))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
