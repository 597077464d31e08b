// internal/functions/daily-agenda/templates.go
package dailyagenda

import "eventdesk-functions/internal/template"

const digestSubject = `Your agenda for {{DATE}} at {{EVENT_NAME}}`

const digestHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a1a2e;">
  <h2>{{#if FIRST_NAME}}Good evening {{FIRST_NAME}}!{{/if}}</h2>
  <p>Here is your agenda for <strong>{{DATE}}</strong> at {{EVENT_NAME}} &mdash; {{SESSION_COUNT}} session(s) on your schedule.</p>
  <table width="100%" cellpadding="8">
  {{#each SESSIONS}}
    <tr>
      <td>
        <h3 style="margin: 0;">{{this.time}} &middot; {{this.name}}</h3>
        {{#if this.location}}<p style="margin: 4px 0;">{{this.location}}</p>{{/if}}
        {{#if this.speaker}}<p style="margin: 4px 0;">with {{this.speaker}}</p>{{/if}}
        {{#if this.description}}<p style="margin: 4px 0; color: #555;">{{this.description}}</p>{{/if}}
        <p><a href="{{this.calendarLink}}">Add to calendar</a> &middot; {{this.duration}}</p>
      </td>
    </tr>
  {{/each}}
  </table>
  <p>Manage your schedule in the <a href="{{PORTAL_URL}}">event portal</a>.</p>
  {{#if PLATINUM_SPONSOR}}
  <div style="text-align: center; padding: 16px;">
    <p style="color: #888; font-size: 12px;">Presented by</p>
    <a href="{{PLATINUM_SPONSOR.websiteUrl}}"><img src="{{PLATINUM_SPONSOR.logoUrl}}" alt="{{PLATINUM_SPONSOR.name}}" height="60"/></a>
  </div>
  {{/if}}
  {{#if GOLD_SPONSORS}}
  <div style="text-align: center;">
  {{#each GOLD_SPONSORS}}
    <a href="{{this.websiteUrl}}"><img src="{{this.logoUrl}}" alt="{{this.name}}" height="40"/></a>
  {{/each}}
  </div>
  {{/if}}
</body>
</html>`

var digestTmpl = template.Parse(digestHTML)
