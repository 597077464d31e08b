// internal/functions/session-reminder/templates.go
package sessionreminder

import "eventdesk-functions/internal/template"

const reminderSubject = `Starting soon: your sessions at {{EVENT_NAME}}`

const reminderHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1a1a2e;">
  <h2>{{#if FIRST_NAME}}Hi {{FIRST_NAME}}, your{{/if}} upcoming sessions at {{EVENT_NAME}}</h2>
  {{#if FIRST_SESSION_TIME}}<p>Your first session starts at <strong>{{FIRST_SESSION_TIME}}</strong>.</p>{{/if}}
  <table width="100%" cellpadding="8">
  {{#each SESSIONS}}
    <tr>
      <td>
        <h3 style="margin: 0;">{{this.name}}</h3>
        <p style="margin: 4px 0;">{{this.time}} &ndash; {{this.endTime}} ({{this.duration}})</p>
        {{#if this.location}}<p style="margin: 4px 0;">Location: {{this.location}}</p>{{/if}}
        {{#if this.speaker}}<p style="margin: 4px 0;">Speaker: {{this.speaker}}</p>{{/if}}
        <p><a href="{{this.calendarLink}}">Add to calendar</a></p>
      </td>
    </tr>
  {{/each}}
  </table>
  <p><a href="{{PORTAL_URL}}">Open your event portal</a></p>
  {{#if PLATINUM_SPONSOR}}
  <div style="text-align: center; padding: 16px;">
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
  {{#if SILVER_SPONSORS}}
  <div style="text-align: center;">
  {{#each SILVER_SPONSORS}}
    <a href="{{this.websiteUrl}}"><img src="{{this.logoUrl}}" alt="{{this.name}}" height="24"/></a>
  {{/each}}
  </div>
  {{/if}}
</body>
</html>`

var reminderTmpl = template.Parse(reminderHTML)
