package app

import (
	"fmt"
	"html/template"
)

// Минимальные служебные страницы. Полноценная разметка живёт во фронтенде,
// сервис отдаёт только оболочки с нужными кодами ответов.

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>GreenLink</title></head>
<body>
<h1>GreenLink</h1>
<p>POST /api/shorten to create a short link.</p>
</body>
</html>`

const managePage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>GreenLink Admin</title></head>
<body>
<h1>GreenLink Admin</h1>
<p>Use /api/admin/login to obtain a session token.</p>
</body>
</html>`

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Link Not Found</title></head>
<body>
<h1>404</h1>
<p>This short link does not exist or has expired.</p>
</body>
</html>`

const limitExceededPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Link Expired</title></head>
<body>
<h1>410</h1>
<p>This link has reached its click limit and is no longer available.</p>
</body>
</html>`

// passwordPage возвращает форму ввода пароля; отправка формы повторяет
// запрос того же короткого кода с параметром p
func passwordPage(shortCode string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Password Required</title></head>
<body>
<h1>Password Required</h1>
<form method="GET" action="/%s">
<input type="password" name="p" placeholder="Password" autofocus>
<button type="submit">Open</button>
</form>
</body>
</html>`, template.HTMLEscapeString(shortCode))
}
